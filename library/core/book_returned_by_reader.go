package core

import (
	"time"
)

// BookReturnedByReaderEventType is the event type identifier.
const BookReturnedByReaderEventType = "BookReturnedByReader"

// BookReturnedByReader represents when a reader returns a book. It closes the Loan with LoanID.
type BookReturnedByReader struct {
	LoanID     LoanIDString
	BookISBN   ISBNString
	BookTitle  string
	ReaderID   UserIDString
	ReaderName string
	ReceivedBy UserIDString
	OccurredAt OccurredAtTS
}

// BuildBookReturnedByReader creates a new BookReturnedByReader event.
func BuildBookReturnedByReader(
	loanID LoanIDString,
	isbn ISBNString,
	title string,
	readerID UserIDString,
	readerName string,
	receivedBy UserIDString,
	occurredAt time.Time,
) BookReturnedByReader {

	event := BookReturnedByReader{
		LoanID:     loanID,
		BookISBN:   isbn,
		BookTitle:  title,
		ReaderID:   readerID,
		ReaderName: readerName,
		ReceivedBy: receivedBy,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e BookReturnedByReader) IsEventType() string {
	return BookReturnedByReaderEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReturnedByReader) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookReturnedByReader) IsErrorEvent() bool {
	return false
}
