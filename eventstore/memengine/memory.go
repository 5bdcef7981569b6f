package memengine

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
)

// ErrExtractingPayloadFieldsFailed is returned when the payload of an event to append is not a JSON object.
var ErrExtractingPayloadFieldsFailed = errors.New("extracting payload fields failed")

type storedEvent struct {
	event  eventstore.StorableEvent
	fields map[string]string
}

// EventStore is the in-memory engine. The zero value is not usable, use NewEventStore.
type EventStore struct {
	mu     sync.RWMutex
	events []storedEvent

	logger           eventstore.Logger
	contextualLogger eventstore.ContextualLogger
	metricsCollector eventstore.MetricsCollector
}

// NewEventStore creates an empty in-memory EventStore with optional configuration.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{
		events: make([]storedEvent, 0),
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query retrieves all events matching the filter in append order,
// as well as the MaxSequenceNumberUint for this "dynamic event stream" at the time of the query.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return eventstore.StorableEvents{}, 0, err
	}

	start := time.Now()

	es.mu.RLock()
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if !filter.Matches(stored.event.EventType, stored.fields) {
			continue
		}

		eventStream = append(eventStream, cloneEvent(stored.event))
		maxSequenceNumber = stored.event.SequenceNumber
	}
	es.mu.RUnlock()

	duration := time.Since(start)
	es.recordDuration(metricQueryDuration, operationQuery, statusSuccess, duration)
	es.logDebug(ctx, logMsgQueryCompleted,
		logAttrEventCount, len(eventStream),
		logAttrDurationMS, toMilliseconds(duration),
		logAttrFilter, filter.String(),
	)

	return eventStream, maxSequenceNumber, nil
}

// Append attempts to append one or multiple events atomically, respecting concurrency constraints
// for the "dynamic event stream" described by the filter and the expected MaxSequenceNumberUint.
//
// The filter should be the same one that was used for the Query before making the business decision.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvents ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	if len(storableEvents) == 0 {
		return eventstore.ErrEmptyEventsToAppend
	}

	// extract outside the lock, payloads are immutable input
	toStore := make([]storedEvent, 0, len(storableEvents))
	for _, event := range storableEvents {
		fields, err := extractFields(event.PayloadJSON)
		if err != nil {
			es.recordDuration(metricAppendDuration, operationAppend, statusError, 0)
			return errors.Join(ErrExtractingPayloadFieldsFailed, err)
		}

		toStore = append(toStore, storedEvent{event: cloneEvent(event), fields: fields})
	}

	start := time.Now()

	es.mu.Lock()
	actualMaxSequenceNumber := es.maxSequenceNumberFor(filter)
	if actualMaxSequenceNumber != expectedMaxSequenceNumber {
		es.mu.Unlock()

		es.recordConflict()
		es.recordDuration(metricAppendDuration, operationAppend, statusConflict, time.Since(start))
		es.logWarn(ctx, logMsgConcurrencyConflict,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
			logAttrActualSequence, actualMaxSequenceNumber,
			logAttrFilter, filter.String(),
		)

		return eventstore.ErrConcurrencyConflict
	}

	nextSequenceNumber := es.lastSequenceNumber() + 1
	for i := range toStore {
		toStore[i].event.SequenceNumber = nextSequenceNumber
		nextSequenceNumber++
	}

	es.events = append(es.events, toStore...)
	es.mu.Unlock()

	duration := time.Since(start)
	es.recordAppended(len(toStore))
	es.recordDuration(metricAppendDuration, operationAppend, statusSuccess, duration)
	es.logInfo(ctx, logMsgEventsAppended,
		logAttrEventCount, len(toStore),
		logAttrDurationMS, toMilliseconds(duration),
	)

	return nil
}

// Len returns the total number of stored events.
func (es *EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(es.events)
}

// maxSequenceNumberFor must be called with the lock held.
func (es *EventStore) maxSequenceNumberFor(filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	for i := len(es.events) - 1; i >= 0; i-- {
		if filter.Matches(es.events[i].event.EventType, es.events[i].fields) {
			return es.events[i].event.SequenceNumber
		}
	}

	return 0
}

// lastSequenceNumber must be called with the lock held.
func (es *EventStore) lastSequenceNumber() eventstore.MaxSequenceNumberUint {
	if len(es.events) == 0 {
		return 0
	}

	return es.events[len(es.events)-1].event.SequenceNumber
}

// extractFields flattens the scalar top-level fields of a JSON object payload to strings.
// Nested objects, arrays and nulls can't be used in predicates and are skipped.
func extractFields(payloadJSON []byte) (map[string]string, error) {
	raw := make(map[string]any)
	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &raw); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(raw))
	for key, val := range raw {
		switch v := val.(type) {
		case string:
			fields[key] = v
		case float64:
			fields[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			fields[key] = strconv.FormatBool(v)
		}
	}

	return fields, nil
}

func cloneEvent(event eventstore.StorableEvent) eventstore.StorableEvent {
	event.PayloadJSON = slices.Clone(event.PayloadJSON)
	event.MetadataJSON = slices.Clone(event.MetadataJSON)

	return event
}
