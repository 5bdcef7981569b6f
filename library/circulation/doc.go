// Package circulation lends books to readers and takes them back.
//
// Each use case follows Query -> Decide -> Append: the history of the book and the reader is loaded from
// the journal, a pure Decide function turns it into a core.DecisionResult and the resulting event is appended
// through the accounting ledger with an optimistic concurrency check. Concurrency conflicts are retried
// with exponential backoff.
//
// The availability flag of the book and the Service's loans mirror the journal.
// They are only changed after a successful append, while the book's lock is held.
package circulation
