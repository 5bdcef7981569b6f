package core

import (
	"time"
)

// Loan links one book and one reader for the duration of a borrow.
// Loans are never deleted, a returned loan is closed by setting ReturnedAt.
type Loan struct {
	ID         LoanIDString
	BookISBN   ISBNString
	BookTitle  string
	ReaderID   UserIDString
	IssuedAt   time.Time
	ReturnedAt *time.Time
	IssuedBy   UserIDString // empty for self-service
}

// IsOpen reports whether the book was not returned yet.
func (l Loan) IsOpen() bool {
	return l.ReturnedAt == nil
}

// Closed returns a copy of the loan closed at returnedAt.
func (l Loan) Closed(returnedAt time.Time) Loan {
	l.ReturnedAt = &returnedAt

	return l
}
