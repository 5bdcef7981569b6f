package circulation

import (
	"time"

	"github.com/AntonStoeckl/library-catalog-go/library/core"
	"github.com/AntonStoeckl/library-catalog-go/library/shell"
)

// Option defines a functional option for configuring a Service.
type Option func(*Service) error

// WithLogger sets the logger for command logging.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(s *Service) error {
		if logger == nil {
			return shell.ErrNilOption
		}

		s.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for command metrics.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *Service) error {
		if collector == nil {
			return shell.ErrNilOption
		}

		s.metricsCollector = collector

		return nil
	}
}

// WithClock replaces time.Now as the source of event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) error {
		if clock == nil {
			return shell.ErrNilOption
		}

		s.clock = clock

		return nil
	}
}

// WithLoanIDs replaces the generator of loan IDs, uuid v7 by default.
func WithLoanIDs(next func() core.LoanIDString) Option {
	return func(s *Service) error {
		if next == nil {
			return shell.ErrNilOption
		}

		s.nextLoanID = next

		return nil
	}
}
