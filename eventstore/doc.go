// Package eventstore provides the storage-agnostic abstractions for the library's event journal.
//
// Every state change in the catalog, the directory and in circulation is recorded as an event.
// This package defines what such an event looks like in storage (StorableEvent), how a slice of the
// journal is selected (Filter) and the small observability interfaces engines report to.
//
// A Filter describes a "dynamic event stream": all events whose type and/or JSON payload match.
// Engines return the max sequence number of that stream from Query, and Append only succeeds if the
// stream did not change in between (optimistic concurrency):
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.BookLentToReaderEventType,
//			core.BookReturnedByReaderEventType).
//		AndAnyPredicateOf(eventstore.P("BookISBN", isbn)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//
// The only engine shipped is the in-memory memengine.
package eventstore
