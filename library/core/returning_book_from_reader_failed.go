package core

import (
	"time"
)

// ReturningBookFromReaderFailedEventType is the event type identifier.
const ReturningBookFromReaderFailedEventType = "ReturningBookFromReaderFailed"

// ReturningBookFromReaderFailed represents when returning a book fails due to business rule violations.
type ReturningBookFromReaderFailed struct {
	BookISBN    ISBNString
	ReaderID    UserIDString
	FailureInfo string
	OccurredAt  OccurredAtTS
}

// BuildReturningBookFromReaderFailed creates a new ReturningBookFromReaderFailed event.
func BuildReturningBookFromReaderFailed(
	isbn ISBNString,
	readerID UserIDString,
	failureInfo string,
	occurredAt time.Time,
) ReturningBookFromReaderFailed {

	event := ReturningBookFromReaderFailed{
		BookISBN:    isbn,
		ReaderID:    readerID,
		FailureInfo: failureInfo,
		OccurredAt:  ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e ReturningBookFromReaderFailed) IsEventType() string {
	return ReturningBookFromReaderFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReturningBookFromReaderFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns true since this event represents a failed operation.
func (e ReturningBookFromReaderFailed) IsErrorEvent() bool {
	return true
}
