package circulation

import (
	"github.com/AntonStoeckl/library-catalog-go/eventstore"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
)

// state is projected from the history of one book and one reader.
type state struct {
	bookIsInCatalog       bool
	readerIsRegistered    bool
	librarianIsRegistered bool
	bookIsOnLoan          bool
	borrowerID            core.UserIDString
	openLoanID            core.LoanIDString
	lastReturnedByReader  core.UserIDString
}

// DecideBorrow decides whether a book can be lent to a reader.
//
// Business Rules:
//
//	GIVEN: a book with BookISBN and a reader with ReaderID
//	WHEN: BorrowBook is received
//	THEN: BookLentToReader is generated
//	ERROR: ErrLibrarianNotRegistered if the book is issued by a librarian who is not registered
//	ERROR: ErrBookNotInCatalog if the book was never added or was removed
//	ERROR: ErrReaderNotRegistered if the reader is not registered
//	ERROR: NotAvailableError if the book is on loan, to this reader as well
func DecideBorrow(history core.DomainEvents, command BorrowBook) core.DecisionResult {
	s := project(history, command.BookISBN, command.ReaderID, command.IssuedBy)

	if command.IssuedBy != "" && !s.librarianIsRegistered {
		return borrowFailed(command, core.ErrLibrarianNotRegistered)
	}

	if !s.bookIsInCatalog {
		return borrowFailed(command, core.ErrBookNotInCatalog)
	}

	if !s.readerIsRegistered {
		return borrowFailed(command, core.ErrReaderNotRegistered)
	}

	if s.bookIsOnLoan {
		return borrowFailed(command, &core.NotAvailableError{ISBN: command.BookISBN, Title: command.BookTitle})
	}

	return core.SuccessDecision(
		core.BuildBookLentToReader(
			command.LoanID,
			command.BookISBN,
			command.BookTitle,
			command.ReaderID,
			command.ReaderName,
			command.IssuedBy,
			command.OccurredAt,
		),
	)
}

// DecideReturn decides whether a reader can return a book.
//
// Business Rules:
//
//	GIVEN: a book with BookISBN and a reader with ReaderID
//	WHEN: ReturnBook is received
//	THEN: BookReturnedByReader is generated, it closes the open loan
//	ERROR: ErrLibrarianNotRegistered if the book is received by a librarian who is not registered
//	ERROR: ErrNotBorrower if the book is on loan to another reader
//	ERROR: ErrNotOnLoan if the book is not on loan
//	IDEMPOTENCY: if this reader was the last one to return the book, no event is generated
func DecideReturn(history core.DomainEvents, command ReturnBook) core.DecisionResult {
	s := project(history, command.BookISBN, command.ReaderID, command.ReceivedBy)

	if command.ReceivedBy != "" && !s.librarianIsRegistered {
		return returnFailed(command, core.ErrLibrarianNotRegistered)
	}

	if s.bookIsOnLoan && s.borrowerID == command.ReaderID {
		return core.SuccessDecision(
			core.BuildBookReturnedByReader(
				s.openLoanID,
				command.BookISBN,
				command.BookTitle,
				command.ReaderID,
				command.ReaderName,
				command.ReceivedBy,
				command.OccurredAt,
			),
		)
	}

	if s.bookIsOnLoan {
		return returnFailed(command, core.ErrNotBorrower)
	}

	if s.lastReturnedByReader == command.ReaderID {
		return core.IdempotentDecision()
	}

	return returnFailed(command, core.ErrNotOnLoan)
}

func borrowFailed(command BorrowBook, err error) core.DecisionResult {
	event := core.BuildLendingBookToReaderFailed(command.BookISBN, command.ReaderID, err.Error(), command.OccurredAt)

	return core.ErrorDecision(event, err)
}

func returnFailed(command ReturnBook, err error) core.DecisionResult {
	event := core.BuildReturningBookFromReaderFailed(command.BookISBN, command.ReaderID, err.Error(), command.OccurredAt)

	return core.ErrorDecision(event, err)
}

// project builds the current state by replaying the history.
func project(history core.DomainEvents, isbn core.ISBNString, readerID core.UserIDString, librarianID core.UserIDString) state {
	var s state

	for _, event := range history {
		switch e := event.(type) {
		case core.BookAddedToCatalog:
			if e.BookISBN == isbn {
				s.bookIsInCatalog = true
			}

		case core.BookRemovedFromCatalog:
			if e.BookISBN == isbn {
				s.bookIsInCatalog = false
			}

		case core.UserRegistered:
			if e.UserID == readerID && readerID != "" {
				s.readerIsRegistered = true
			}

			if e.UserID == librarianID && librarianID != "" && e.UserKind == core.LibrarianKind {
				s.librarianIsRegistered = true
			}

		case core.BookLentToReader:
			if e.BookISBN == isbn {
				s.bookIsOnLoan = true
				s.borrowerID = e.ReaderID
				s.openLoanID = e.LoanID
			}

		case core.BookReturnedByReader:
			if e.BookISBN == isbn {
				s.bookIsOnLoan = false
				s.borrowerID = ""
				s.openLoanID = ""
				s.lastReturnedByReader = e.ReaderID
			}
		}
	}

	return s
}

// BuildEventFilter selects the history that is relevant for borrowing or returning one book by one reader:
// the catalog and loan events of the book, OR the registration of the reader or of the librarian.
// librarianID is empty for self-service.
func BuildEventFilter(isbn core.ISBNString, readerID core.UserIDString, librarianID core.UserIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookRemovedFromCatalogEventType,
			core.BookLentToReaderEventType,
			core.BookReturnedByReaderEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookISBN", isbn)).
		OrMatching().
		AnyEventTypeOf(core.UserRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("UserID", readerID), eventstore.P("UserID", librarianID)).
		Finalize()
}
