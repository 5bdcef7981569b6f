package core

import (
	"time"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// ISBNString represents an ISBN, the unique identifier of a book in the catalog
type ISBNString = string

// UserIDString represents a user identifier, readers and librarians share one id space
type UserIDString = string

// LoanIDString represents a loan identifier
type LoanIDString = string

// EventTypeString represents the type of domain event
type EventTypeString = string

// OccurredAtTS represents when an event occurred
type OccurredAtTS = time.Time

// ToOccurredAt converts a time to OccurredAtTS with UTC normalization and microsecond precision
func ToOccurredAt(t time.Time) OccurredAtTS {
	return t.UTC().Truncate(time.Microsecond)
}
