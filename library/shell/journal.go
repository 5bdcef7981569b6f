package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
)

// ErrNilJournal is returned when a nil journal is supplied to a constructor.
var ErrNilJournal = errors.New("journal must not be nil")

// ErrNilOption is returned when an option receives a nil collaborator.
var ErrNilOption = errors.New("option value must not be nil")

// EventStore is what the Journal needs from an engine, memengine.EventStore satisfies it.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)

	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// Journal records domain events in an event store and reads them back.
// All library components write through one Journal, so it is the single append-only history of the library.
type Journal struct {
	store            EventStore
	retryOptions     []RetryOption
	metricsCollector MetricsCollector
}

// JournalOption defines a functional option for configuring a Journal.
type JournalOption func(*Journal) error

// WithRetryOptions sets the retry behavior for appends that hit a concurrency conflict.
func WithRetryOptions(options ...RetryOption) JournalOption {
	return func(j *Journal) error {
		j.retryOptions = append(j.retryOptions, options...)

		return nil
	}
}

// WithJournalMetrics sets the metrics collector that receives retry metrics.
func WithJournalMetrics(collector MetricsCollector) JournalOption {
	return func(j *Journal) error {
		if collector == nil {
			return ErrNilOption
		}

		j.metricsCollector = collector

		return nil
	}
}

// NewJournal creates a Journal on top of an event store.
func NewJournal(store EventStore, options ...JournalOption) (*Journal, error) {
	if store == nil {
		return nil, eventstore.ErrNilEventStore
	}

	j := &Journal{store: store}

	for _, option := range options {
		if err := option(j); err != nil {
			return nil, err
		}
	}

	return j, nil
}

// Load queries the "dynamic event stream" described by the filter and unmarshals it to domain events.
func (j *Journal) Load(ctx context.Context, filter eventstore.Filter) (
	core.DomainEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	storableEvents, maxSequenceNumber, err := j.store.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	domainEvents, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return domainEvents, maxSequenceNumber, nil
}

// LoadEnvelopes is like Load, but keeps the metadata and the sequence number of each event.
func (j *Journal) LoadEnvelopes(ctx context.Context, filter eventstore.Filter) (
	EventEnvelopes,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	storableEvents, maxSequenceNumber, err := j.store.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	envelopes, err := EventEnvelopesFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return envelopes, maxSequenceNumber, nil
}

// Append appends one domain event if the "dynamic event stream" described by the filter
// did not move on since expectedMaxSequenceNumber was queried.
// The metadata is built from the context, see EventMetadataFromContext.
func (j *Journal) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event core.DomainEvent,
) error {

	storableEvent, err := StorableEventFrom(event, EventMetadataFromContext(ctx))
	if err != nil {
		return err
	}

	return j.store.Append(ctx, filter, expectedMaxSequenceNumber, storableEvent)
}

// Record appends a domain event that doesn't depend on the history of its stream.
// It queries the current max sequence number of the stream and appends, retrying on concurrency conflicts.
func (j *Journal) Record(ctx context.Context, filter eventstore.Filter, event core.DomainEvent) (HandlerResult, error) {
	retryMetrics, err := j.Retry(ctx, event.IsEventType(), func(ctx context.Context) error {
		_, maxSequenceNumber, queryErr := j.store.Query(ctx, filter)
		if queryErr != nil {
			return queryErr
		}

		return j.Append(ctx, filter, maxSequenceNumber, event)
	})

	if err != nil {
		return NewErrorResult(retryMetrics), err
	}

	return NewSuccessResult(retryMetrics), nil
}

// Retry runs fn with the configured exponential backoff, commandType labels the retry metrics.
func (j *Journal) Retry(ctx context.Context, commandType string, fn RetryableFunc) (RetryMetrics, error) {
	options := j.retryOptions
	if j.metricsCollector != nil && commandType != "" {
		options = append(options[:len(options):len(options)], WithRetryMetrics(j.metricsCollector, commandType))
	}

	return RetryWithExponentialBackoff(ctx, fn, options...)
}
