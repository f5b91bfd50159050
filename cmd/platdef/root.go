package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	platdef "github.com/HewlettPackard/openbmc-chif-svc-sub000"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/config"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/table"
)

const (
	cliName        = "platdef"
	cliDescription = "inspect and export platform definition tables"
)

type globalFlags struct {
	configFile string
	image      string
	logLevel   string
}

type cli struct {
	flags globalFlags
	cfg   *config.Config
	log   zerolog.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           cliName,
		Short:         cliDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&c.flags.configFile, "config", "c", "", "configuration file")
	pf.StringVarP(&c.flags.image, "image", "i", "", "platform definition image, overrides the configured one")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "log level, overrides the configured one")

	root.AddCommand(
		newDumpCommand(c),
		newGetCommand(c),
		newExportCommand(c),
		newTopologyCommand(c),
	)

	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg := config.Default()
	if c.flags.configFile != "" {
		var err error
		if cfg, err = config.Load(c.flags.configFile); err != nil {
			return err
		}
	}

	if c.flags.image != "" {
		cfg.Image = c.flags.image
	}
	if c.flags.logLevel != "" {
		cfg.LogLevel = c.flags.logLevel
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.log = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()

	return nil
}

// load creates an engine and loads the configured image.
func (c *cli) load() (*platdef.Engine, *table.Table, error) {
	if c.cfg.Image == "" {
		return nil, nil, errors.New("no image given, use --image or set image in the configuration file")
	}

	engine, err := platdef.New(c.cfg.EngineOptions(c.log)...)
	if err != nil {
		return nil, nil, err
	}

	tbl, err := engine.LoadFile(c.cfg.Image)
	if err != nil {
		return nil, nil, err
	}

	return engine, tbl, nil
}

func parseID(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid record id %q: %w", s, err)
	}

	return uint16(v), nil
}
