package circulation

import (
	"time"

	"github.com/AntonStoeckl/library-catalog-go/library/core"
)

const (
	BorrowBookCommandType = "BorrowBook"
	ReturnBookCommandType = "ReturnBook"
)

// BorrowBook represents the intent of a reader to borrow a book, optionally issued by a librarian.
type BorrowBook struct {
	LoanID     core.LoanIDString
	BookISBN   core.ISBNString
	BookTitle  string
	ReaderID   core.UserIDString
	ReaderName string
	IssuedBy   core.UserIDString
	OccurredAt core.OccurredAtTS
}

// BuildBorrowBook creates a new BorrowBook command. issuedBy is empty for self-service.
func BuildBorrowBook(
	loanID core.LoanIDString,
	book *core.Book,
	reader core.Reader,
	issuedBy core.UserIDString,
	occurredAt time.Time,
) BorrowBook {

	return BorrowBook{
		LoanID:     loanID,
		BookISBN:   book.ISBN,
		BookTitle:  book.Title,
		ReaderID:   reader.ID,
		ReaderName: reader.Name,
		IssuedBy:   issuedBy,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the type identifier for this command, used for observability.
func (c BorrowBook) CommandType() string {
	return BorrowBookCommandType
}

// ReturnBook represents the intent of a reader to return a book, optionally received by a librarian.
type ReturnBook struct {
	BookISBN   core.ISBNString
	BookTitle  string
	ReaderID   core.UserIDString
	ReaderName string
	ReceivedBy core.UserIDString
	OccurredAt core.OccurredAtTS
}

// BuildReturnBook creates a new ReturnBook command. receivedBy is empty for self-service.
func BuildReturnBook(book *core.Book, reader core.Reader, receivedBy core.UserIDString, occurredAt time.Time) ReturnBook {
	return ReturnBook{
		BookISBN:   book.ISBN,
		BookTitle:  book.Title,
		ReaderID:   reader.ID,
		ReaderName: reader.Name,
		ReceivedBy: receivedBy,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the type identifier for this command, used for observability.
func (c ReturnBook) CommandType() string {
	return ReturnBookCommandType
}
