package table

import (
	"github.com/rs/zerolog"

	"github.com/HewlettPackard/openbmc-chif-svc-sub000/internal/options"
)

// Option configures Build and New.
type Option = options.Option[*config]

type config struct {
	logger zerolog.Logger
}

func defaultConfig() *config {
	return &config{logger: zerolog.Nop()}
}

// WithLogger sets the logger receiving truncation warnings and unknown
// record notices.
func WithLogger(logger zerolog.Logger) Option {
	return options.NoError(func(c *config) {
		c.logger = logger
	})
}
