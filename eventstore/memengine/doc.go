// Package memengine provides an in-memory implementation of the event store.
//
// It keeps the same contract as a database-backed engine would:
//   - Query returns all events matching an eventstore.Filter in append order,
//     together with the max sequence number of that "dynamic event stream"
//   - Append only succeeds if the stream described by the filter still has the expected
//     max sequence number, otherwise eventstore.ErrConcurrencyConflict is returned
//
// Events are never updated or deleted. Sequence numbers are global, start at 1 and have no gaps.
//
// The engine is safe for concurrent use. Payload predicates are evaluated against the top-level
// fields of the JSON payload, which are extracted once per event on Append.
//
// Observability is optional and configured with functional options:
//
//	es, err := memengine.NewEventStore(
//		memengine.WithLogger(slogLogger),
//		memengine.WithMetrics(metricsCollector),
//	)
package memengine
