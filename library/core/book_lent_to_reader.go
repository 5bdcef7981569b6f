package core

import (
	"time"
)

// BookLentToReaderEventType is the event type identifier.
const BookLentToReaderEventType = "BookLentToReader"

// BookLentToReader represents when a book is lent to a reader. It opens a Loan.
type BookLentToReader struct {
	LoanID     LoanIDString
	BookISBN   ISBNString
	BookTitle  string
	ReaderID   UserIDString
	ReaderName string
	IssuedBy   UserIDString
	OccurredAt OccurredAtTS
}

// BuildBookLentToReader creates a new BookLentToReader event.
func BuildBookLentToReader(
	loanID LoanIDString,
	isbn ISBNString,
	title string,
	readerID UserIDString,
	readerName string,
	issuedBy UserIDString,
	occurredAt time.Time,
) BookLentToReader {

	event := BookLentToReader{
		LoanID:     loanID,
		BookISBN:   isbn,
		BookTitle:  title,
		ReaderID:   readerID,
		ReaderName: readerName,
		IssuedBy:   issuedBy,
		OccurredAt: ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e BookLentToReader) IsEventType() string {
	return BookLentToReaderEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookLentToReader) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookLentToReader) IsErrorEvent() bool {
	return false
}
