package directory

import (
	"time"

	"github.com/AntonStoeckl/library-catalog-go/library/shell"
)

// Option defines a functional option for configuring a Directory.
type Option func(*Directory) error

// WithLogger sets the logger that receives the registration and login notifications.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(d *Directory) error {
		if logger == nil {
			return shell.ErrNilOption
		}

		d.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for command metrics.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(d *Directory) error {
		if collector == nil {
			return shell.ErrNilOption
		}

		d.metricsCollector = collector

		return nil
	}
}

// WithClock replaces time.Now as the source of event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(d *Directory) error {
		if clock == nil {
			return shell.ErrNilOption
		}

		d.clock = clock

		return nil
	}
}
