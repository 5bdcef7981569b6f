package core

import (
	"time"
)

// LendingBookToReaderFailedEventType is the event type identifier.
const LendingBookToReaderFailedEventType = "LendingBookToReaderFailed"

// LendingBookToReaderFailed represents when lending a book to a reader fails due to business rule violations.
type LendingBookToReaderFailed struct {
	BookISBN    ISBNString
	ReaderID    UserIDString
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildLendingBookToReaderFailed creates a new LendingBookToReaderFailed event.
func BuildLendingBookToReaderFailed(
	isbn ISBNString,
	readerID UserIDString,
	failureInfo string,
	occurredAt time.Time,
) LendingBookToReaderFailed {

	event := LendingBookToReaderFailed{
		BookISBN:    isbn,
		ReaderID:    readerID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e LendingBookToReaderFailed) IsEventType() string {
	return LendingBookToReaderFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LendingBookToReaderFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failed operation.
func (e LendingBookToReaderFailed) IsErrorEvent() bool {
	return true
}
