package eventstore

import (
	"errors"
)

var (
	// ErrConcurrencyConflict is returned by Append when the "dynamic event stream" described by the filter
	// has moved on since it was queried.
	ErrConcurrencyConflict = errors.New("concurrency error, the expected max sequence number does not match")

	// ErrEmptyEventsToAppend is returned when Append is called without any event.
	ErrEmptyEventsToAppend = errors.New("no events supplied to append")

	// ErrNilEventStore is returned when a nil event store is supplied to a constructor.
	ErrNilEventStore = errors.New("event store must not be nil")
)

// MaxSequenceNumberUint is a type alias for uint, representing the maximum sequence number for a "dynamic event stream".
type MaxSequenceNumberUint = uint
