package accounting

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
	"github.com/AntonStoeckl/library-catalog-go/library/shell"
)

const issuedBooksLogHeader = "Issued Books Log:"

const (
	logMsgEntryRecorded   = "ledger entry recorded"
	logMsgFailureRecorded = "ledger failure recorded"
	logAttrEventType      = "event_type"
	logAttrBookISBN       = "book_isbn"
	logAttrReaderID       = "reader_id"
)

// ErrNotAFailureEvent is returned when RecordFailure gets an event that does not describe a failure.
var ErrNotAFailureEvent = errors.New("event is not a failure event")

// Ledger is the accounting view on the journal. It is safe for concurrent use.
type Ledger struct {
	journal *shell.Journal
	logger  shell.ContextualLogger
}

// Option defines a functional option for configuring a Ledger.
type Option func(*Ledger) error

// WithLogger sets the logger for ledger entries.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(l *Ledger) error {
		if logger == nil {
			return shell.ErrNilOption
		}

		l.logger = logger

		return nil
	}
}

// NewLedger creates a Ledger on top of journal.
func NewLedger(journal *shell.Journal, options ...Option) (*Ledger, error) {
	if journal == nil {
		return nil, shell.ErrNilJournal
	}

	l := &Ledger{
		journal: journal,
		logger:  shell.NopLogger(),
	}

	for _, option := range options {
		if err := option(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Issue records that a book was lent to a reader.
// It fails with eventstore.ErrConcurrencyConflict if the stream selected by filter moved past expectedMaxSequenceNumber.
func (l *Ledger) Issue(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event core.BookLentToReader,
) error {

	if err := l.journal.Append(ctx, filter, expectedMaxSequenceNumber, event); err != nil {
		return err
	}

	l.logEntry(ctx, logMsgEntryRecorded, event.IsEventType(), event.BookISBN, event.ReaderID)

	return nil
}

// ReturnBook records that a reader returned a book, see Issue.
func (l *Ledger) ReturnBook(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event core.BookReturnedByReader,
) error {

	if err := l.journal.Append(ctx, filter, expectedMaxSequenceNumber, event); err != nil {
		return err
	}

	l.logEntry(ctx, logMsgEntryRecorded, event.IsEventType(), event.BookISBN, event.ReaderID)

	return nil
}

// RecordFailure journals a rejected borrow or return. Failures are not ledger entries.
func (l *Ledger) RecordFailure(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event core.DomainEvent,
) error {

	if event == nil || !event.IsErrorEvent() {
		return ErrNotAFailureEvent
	}

	if err := l.journal.Append(ctx, filter, expectedMaxSequenceNumber, event); err != nil {
		return err
	}

	var isbn core.ISBNString
	var readerID core.UserIDString

	switch e := event.(type) {
	case core.LendingBookToReaderFailed:
		isbn, readerID = e.BookISBN, e.ReaderID
	case core.ReturningBookFromReaderFailed:
		isbn, readerID = e.BookISBN, e.ReaderID
	}

	l.logEntry(ctx, logMsgFailureRecorded, event.IsEventType(), isbn, readerID)

	return nil
}

// Entries returns all issues and returns in the order they were recorded.
func (l *Ledger) Entries(ctx context.Context) ([]core.LedgerEntry, error) {
	envelopes, _, err := l.journal.LoadEnvelopes(ctx, EntriesFilter())
	if err != nil {
		return nil, err
	}

	entries := make([]core.LedgerEntry, 0, len(envelopes))
	for _, envelope := range envelopes {
		switch e := envelope.DomainEvent.(type) {
		case core.BookLentToReader:
			entries = append(entries, core.LedgerEntry{
				Kind:           core.IssueEntry,
				ReaderName:     e.ReaderName,
				BookTitle:      e.BookTitle,
				BookISBN:       e.BookISBN,
				OccurredAt:     e.OccurredAt,
				SequenceNumber: envelope.SequenceNumber,
			})
		case core.BookReturnedByReader:
			entries = append(entries, core.LedgerEntry{
				Kind:           core.ReturnEntry,
				ReaderName:     e.ReaderName,
				BookTitle:      e.BookTitle,
				BookISBN:       e.BookISBN,
				OccurredAt:     e.OccurredAt,
				SequenceNumber: envelope.SequenceNumber,
			})
		}
	}

	return entries, nil
}

// PrintLog writes the header "Issued Books Log:" followed by one line per entry.
func (l *Ledger) PrintLog(ctx context.Context, w io.Writer) error {
	entries, err := l.Entries(ctx)
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintln(w, issuedBooksLogHeader); err != nil {
		return err
	}

	for _, entry := range entries {
		if _, err = fmt.Fprintln(w, entry.String()); err != nil {
			return err
		}
	}

	return nil
}

func (l *Ledger) logEntry(ctx context.Context, msg string, eventType string, isbn core.ISBNString, readerID core.UserIDString) {
	l.logger.InfoContext(ctx, msg,
		logAttrEventType, eventType,
		logAttrBookISBN, isbn,
		logAttrReaderID, readerID,
	)
}

// EntriesFilter selects the events that make up the ledger.
func EntriesFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookLentToReaderEventType, core.BookReturnedByReaderEventType).
		Finalize()
}
