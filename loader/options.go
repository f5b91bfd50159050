package loader

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/errs"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/options"
	"github.com/HewlettPackard/openbmc-chif-svc-sub000/section"
)

const (
	// DefaultPrefixSize is the length of the firmware container prefix in
	// front of the table header.
	DefaultPrefixSize = 64
	// DefaultArenaCapacity is the size of the arena holding the
	// decompressed table.
	DefaultArenaCapacity = 256 * 1024
)

// Option configures Load.
type Option = options.Option[*config]

type config struct {
	prefixSize    int64
	arenaCapacity int
	verifyHash    bool
	logger        zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		prefixSize:    DefaultPrefixSize,
		arenaCapacity: DefaultArenaCapacity,
		logger:        zerolog.Nop(),
	}
}

// WithPrefixSize sets the number of container bytes skipped before the
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

// WithArenaCapacity sets the arena size. It must hold at least the table
// header and an end-of-table record.
func WithArenaCapacity(n int) Option {
	return options.New(func(c *config) error {
		if n < section.TableHeaderSize+section.RecordHeaderSize {
			return fmt.Errorf("%w: %d bytes", errs.ErrInvalidArenaCapacity, n)
		}
		c.arenaCapacity = n

		return nil
	})
}

// WithVerifyContentHash enables checking the header's content hash against
// the decompressed record region. Tables with a zero hash always pass.
func WithVerifyContentHash(enabled bool) Option {
	return options.NoError(func(c *config) {
		c.verifyHash = enabled
	})
}

// WithLogger sets the logger used for load warnings.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = logger
	})
}
