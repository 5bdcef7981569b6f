package memengine

import (
	"errors"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
)

// ErrNilOption is returned when an option receives a nil collaborator.
var ErrNilOption = errors.New("option value must not be nil")

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithLogger sets the logger for the EventStore.
//
// Debug level: query/append timing with the filter used
// Info level: appended event counts
// Warn level: concurrency conflicts.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		if logger == nil {
			return ErrNilOption
		}

		es.logger = logger

		return nil
	}
}

// WithContextualLogger sets a context-aware logger, it takes precedence over the logger set with WithLogger.
func WithContextualLogger(logger eventstore.ContextualLogger) Option {
	return func(es *EventStore) error {
		if logger == nil {
			return ErrNilOption
		}

		es.contextualLogger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
// It receives query/append durations, appended event counts and concurrency conflicts.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		if collector == nil {
			return ErrNilOption
		}

		es.metricsCollector = collector

		return nil
	}
}
