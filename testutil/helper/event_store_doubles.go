package helper

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
)

// EventStore is the subset of the engine API the doubles wrap.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint, error)
	Append(ctx context.Context, filter eventstore.Filter, expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint, storableEvents ...eventstore.StorableEvent) error
}

// FailingEventStore returns the configured errors from Query and Append without touching any state.
type FailingEventStore struct {
	QueryErr  error
	AppendErr error
}

func (s FailingEventStore) Query(_ context.Context, _ eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint, error) {
	if s.QueryErr != nil {
		return eventstore.StorableEvents{}, 0, s.QueryErr
	}

	return eventstore.StorableEvents{}, 0, nil
}

func (s FailingEventStore) Append(_ context.Context, _ eventstore.Filter, _ eventstore.MaxSequenceNumberUint, _ ...eventstore.StorableEvent) error {
	return s.AppendErr
}

// ConflictingEventStore wraps a real EventStore and fails the first Conflicts appends
// with eventstore.ErrConcurrencyConflict before delegating.
type ConflictingEventStore struct {
	EventStore

	mu          sync.Mutex
	conflicts   int
	appendCalls int
}

// NewConflictingEventStore creates a ConflictingEventStore that fails the first conflicts appends.
func NewConflictingEventStore(wrapped EventStore, conflicts int) *ConflictingEventStore {
	return &ConflictingEventStore{EventStore: wrapped, conflicts: conflicts}
}

func (s *ConflictingEventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvents ...eventstore.StorableEvent,
) error {

	s.mu.Lock()
	s.appendCalls++
	if s.conflicts > 0 {
		s.conflicts--
		s.mu.Unlock()

		return eventstore.ErrConcurrencyConflict
	}
	s.mu.Unlock()

	return s.EventStore.Append(ctx, filter, expectedMaxSequenceNumber, storableEvents...)
}

// AppendCalls returns how often Append was called, including the failed attempts.
func (s *ConflictingEventStore) AppendCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendCalls
}
