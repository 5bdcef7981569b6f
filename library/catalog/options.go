package catalog

import (
	"time"

	"github.com/AntonStoeckl/library-catalog-go/library/shell"
)

// Option defines a functional option for configuring a Catalog.
type Option func(*Catalog) error

// WithLogger sets the logger, the default discards everything.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(c *Catalog) error {
		if logger == nil {
			return shell.ErrNilOption
		}

		c.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for command metrics.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(c *Catalog) error {
		if collector == nil {
			return shell.ErrNilOption
		}

		c.metricsCollector = collector

		return nil
	}
}

// WithClock replaces time.Now as the source of event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *Catalog) error {
		if clock == nil {
			return shell.ErrNilOption
		}

		c.clock = clock

		return nil
	}
}
