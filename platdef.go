// Package platdef loads and serves the platform definition (PlatDef) table
// of a baseboard management controller.
//
// OEM partners describe a server's sensors, fans, power supplies,
// redundancy groups, I2C topology and other hardware facts in a compact
// binary table compiled offline and shipped in the firmware image. The
// Engine loads that table, indexes it and answers queries from the
// hardware management logic and from the host wire channel.
//
// # Basic Usage
//
//	engine, _ := platdef.New(platdef.WithLogger(logger))
//	if _, err := engine.LoadFile("/usr/share/platdef/platdef.bin"); err != nil {
//	    return err
//	}
//
//	tbl, _ := engine.Table()
//	psu, ok := tbl.ByCategoryIndex(format.CategoryPowerSupply, 0)
//
//	chunk, _ := engine.ExportByID(token, []export.Request{{ID: 0x0501}})
//
// # Generations
//
// Every successful load builds a new arena, index and I2C topology and
// publishes them together. A reader holding a *table.Table keeps a
// consistent view even while a reload runs. A failed reload leaves the
// previous generation published.
//
// # Package Structure
//
// This package wraps the loader, table, export and topology packages for
// the common case. Use them directly for finer control.
package platdef

import (
	"bytes"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/export"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/format"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/options"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/loader"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/table"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/topology"
)

// Engine owns the published table generation.
//
// Queries are safe for concurrent use. Loads must be serialized by the
// caller.
type Engine struct {
	cfg       *config
	current   atomic.Pointer[generation]
	builds    atomic.Uint64
	projector *topology.Projector
}

// generation is one published table and the topology derived from it.
type generation struct {
	table    *table.Table
	topology *topology.Topology
}

// New creates an engine with no table loaded.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	projector, err := topology.NewProjector(topology.WithLogger(cfg.logger))
	if err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg, projector: projector}, nil
}

// Load loads the image read from src and publishes it as the new
// generation.
func (e *Engine) Load(src loader.Source) (*table.Table, error) {
	a, err := loader.Load(src, e.cfg.loaderOptions()...)
	if err != nil {
		return nil, fmt.Errorf("load platform definition: %w", err)
	}

	return e.publish(a)
}

// LoadBytes loads an image held in memory.
func (e *Engine) LoadBytes(image []byte) (*table.Table, error) {
	return e.Load(bytes.NewReader(image))
}

// LoadFile loads the image stored at path.
func (e *Engine) LoadFile(path string) (*table.Table, error) {
	a, err := loader.LoadFile(path, e.cfg.loaderOptions()...)
	if err != nil {
		return nil, fmt.Errorf("load platform definition %s: %w", path, err)
	}

	return e.publish(a)
}

func (e *Engine) publish(a *loader.Arena) (*table.Table, error) {
	t, err := table.New(a, table.WithLogger(e.cfg.logger))
	if err != nil {
		return nil, fmt.Errorf("index platform definition: %w", err)
	}

	meta := t.Metadata()
	meta.BuildCount = e.builds.Add(1)

	e.current.Store(&generation{table: t, topology: e.projector.Build(t)})

	h := t.Header()
	e.cfg.logger.Info().
		Str("description", h.DescriptionString()).
		Str("version", h.Version()).
		Uint64("build", meta.BuildCount).
		Int("records", meta.RecordCount).
		Str("digest", a.Digest().String()).
		Msg("platform definition table published")

	return t, nil
}

// Table returns the published table, or ErrNotLoaded before the first
// successful load.
func (e *Engine) Table() (*table.Table, error) {
	g := e.current.Load()
	if g == nil {
		return nil, errs.ErrNotLoaded
	}

	return g.table, nil
}

// BuildCount returns the number of successful loads.
func (e *Engine) BuildCount() uint64 {
	return e.builds.Load()
}

// Topology returns the I2C routing tables of the published generation.
// Before the first load every slot is zero.
func (e *Engine) Topology() *topology.Topology {
	g := e.current.Load()
	if g == nil {
		return &topology.Topology{}
	}

	return g.topology
}

// ExportByID serves a "download specific data" request against the
// published table. See export.ByID.
func (e *Engine) ExportByID(token uint32, reqs []export.Request) (export.Chunk, error) {
	t, err := e.Table()
	if err != nil {
		return export.Chunk{}, err
	}

	return export.ByID(t, token, reqs, export.WithLogger(e.cfg.logger))
}

// ExportByCategory serves a "download by type" request against the
// published table. See export.ByCategory.
func (e *Engine) ExportByCategory(c format.Category, ranges []export.Range) (export.CategoryChunk, error) {
	t, err := e.Table()
	if err != nil {
		return export.CategoryChunk{}, err
	}

	return export.ByCategory(t, c, ranges, export.WithLogger(e.cfg.logger))
}

// Option configures an Engine.
type Option = options.Option[*config]

type config struct {
	prefixSize    int64
	arenaCapacity int
	verifyHash    bool
	logger        zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		prefixSize:    loader.DefaultPrefixSize,
		arenaCapacity: loader.DefaultArenaCapacity,
		logger:        zerolog.Nop(),
	}
}

func (c *config) loaderOptions() []loader.Option {
	return []loader.Option{
		loader.WithPrefixSize(c.prefixSize),
		loader.WithArenaCapacity(c.arenaCapacity),
		loader.WithVerifyContentHash(c.verifyHash),
		loader.WithLogger(c.logger),
	}
}

// WithPrefixSize sets the container prefix length skipped before the
// table header.
func WithPrefixSize(n int64) Option {
	return options.New(func(c *config) error {
		if n < 0 {
			return fmt.Errorf("%w: negative prefix size %d", errs.ErrInvalidConfig, n)
		}
		c.prefixSize = n

		return nil
	})
}

// WithArenaCapacity sets the arena size of every generation.
func WithArenaCapacity(n int) Option {
	return options.New(func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("%w: %d bytes", errs.ErrInvalidArenaCapacity, n)
		}
		c.arenaCapacity = n

		return nil
	})
}

// WithVerifyContentHash enables content hash verification on load.
func WithVerifyContentHash(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.verifyHash = enabled
	})
}

// WithLogger sets the logger shared by the loader, indexer, exporter and
// topology projector.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = logger
	})
}
