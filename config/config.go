// Package config loads the operator configuration of the platdef CLI.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	platdef "github.com/HewlettPackard/openbmc-chif-svc-sub000"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/loader"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/section"
)

// Config represents the configuration file content.
//
//	image: /usr/share/platdef/platdef.bin
//	prefix_size: 64
//	arena_capacity: 262144
//	verify_content_hash: true
//	log_level: info
type Config struct {
	Image             string `yaml:"image"`
	PrefixSize        int64  `yaml:"prefix_size"`
	ArenaCapacity     int    `yaml:"arena_capacity"`
	VerifyContentHash bool   `yaml:"verify_content_hash"`
	LogLevel          string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		PrefixSize:    loader.DefaultPrefixSize,
		ArenaCapacity: loader.DefaultArenaCapacity,
		LogLevel:      zerolog.InfoLevel.String(),
	}
}

// Load reads and validates the configuration file at path. Fields missing
// from the file keep their default.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses and validates configuration content from r.
func Read(r io.Reader) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(content, c); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal yaml: %w", errs.ErrInvalidConfig, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.PrefixSize < 0 {
		return fmt.Errorf("%w: prefix_size %d is negative", errs.ErrInvalidConfig, c.PrefixSize)
	}

	if c.ArenaCapacity < section.TableHeaderSize+section.RecordHeaderSize {
		return fmt.Errorf("%w: arena_capacity %d is below %d bytes",
			errs.ErrInvalidConfig, c.ArenaCapacity, section.TableHeaderSize+section.RecordHeaderSize)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	return nil
}

// Level returns the configured log level.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("%w: log_level: %w", errs.ErrInvalidConfig, err)
	}

	return level, nil
}

// EngineOptions converts the configuration into engine options.
func (c *Config) EngineOptions(logger zerolog.Logger) []platdef.Option {
	return []platdef.Option{
		platdef.WithPrefixSize(c.PrefixSize),
		platdef.WithArenaCapacity(c.ArenaCapacity),
		platdef.WithVerifyContentHash(c.VerifyContentHash),
		platdef.WithLogger(logger),
	}
}
