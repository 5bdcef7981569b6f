package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAvailable is the condition of a book that can't be borrowed because it is on loan.
	// Use errors.Is with it, the returned error is a *NotAvailableError.
	ErrNotAvailable = errors.New("book is not available")

	// ErrBookNotInCatalog is returned when a book that is not (or no longer) in the catalog should be borrowed.
	ErrBookNotInCatalog = errors.New("book is not in the catalog")

	// ErrReaderNotRegistered is returned when an unregistered reader wants to borrow a book.
	ErrReaderNotRegistered = errors.New("reader is not registered")

	// ErrLibrarianNotRegistered is returned when a book is issued or received by an unregistered librarian.
	ErrLibrarianNotRegistered = errors.New("librarian is not registered")

	// ErrNotOnLoan is returned when a book that was never lent to the reader should be returned.
	ErrNotOnLoan = errors.New("book is not on loan")

	// ErrNotBorrower is returned when a book is returned by someone else than the current borrower.
	ErrNotBorrower = errors.New("book is on loan to another reader")
)

// NotAvailableError is returned when borrowing a book that is currently on loan.
type NotAvailableError struct {
	ISBN  ISBNString
	Title string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("%s: '%s' (ISBN %s)", ErrNotAvailable, e.Title, e.ISBN)
}

// Is makes errors.Is(err, ErrNotAvailable) work.
func (e *NotAvailableError) Is(target error) bool {
	return target == ErrNotAvailable
}
