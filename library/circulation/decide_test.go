package circulation_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-catalog-go/library/circulation"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
)

const (
	isbn          = "978-0-14-044793-4"
	title         = "War and Peace"
	readerID      = "reader-1"
	otherReaderID = "reader-2"
	librarianID   = "librarian-1"
)

func Test_DecideBorrow_Success_WhenAllPreconditionsMet(t *testing.T) {
	// arrange
	now := time.Now()
	history := core.DomainEvents{
		givenBookAddedToCatalog(t, now.Add(-2*time.Hour)),
		givenReaderRegistered(t, readerID, now.Add(-time.Hour)),
	}

	// act
	result := circulation.DecideBorrow(history, borrowCommand(readerID, now))

	// assert
	require.NoError(t, result.HasError())
	lent, ok := result.Event.(core.BookLentToReader)
	require.True(t, ok)
	assert.Equal(t, core.LoanIDString("loan-1"), lent.LoanID)
	assert.Equal(t, readerID, lent.ReaderID)
	assert.Equal(t, isbn, lent.BookISBN)
}

func Test_DecideBorrow_Success_AfterBookWasReturned(t *testing.T) {
	// arrange
	now := time.Now()
	history := core.DomainEvents{
		givenBookAddedToCatalog(t, now.Add(-4*time.Hour)),
		givenReaderRegistered(t, readerID, now.Add(-3*time.Hour)),
		givenBookLentToReader(t, "loan-0", otherReaderID, now.Add(-2*time.Hour)),
		givenBookReturnedByReader(t, "loan-0", otherReaderID, now.Add(-time.Hour)),
	}

	// act
	result := circulation.DecideBorrow(history, borrowCommand(readerID, now))

	// assert
	require.NoError(t, result.HasError())
	assert.IsType(t, core.BookLentToReader{}, result.Event)
}

func Test_DecideBorrow_Error(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		description string
		history     core.DomainEvents
		expectedErr error
	}{
		{
			description: "book never added",
			history:     core.DomainEvents{givenReaderRegistered(t, readerID, now)},
			expectedErr: core.ErrBookNotInCatalog,
		},
		{
			description: "book removed",
			history: core.DomainEvents{
				givenBookAddedToCatalog(t, now),
				givenBookRemovedFromCatalog(t, now),
				givenReaderRegistered(t, readerID, now),
			},
			expectedErr: core.ErrBookNotInCatalog,
		},
		{
			description: "reader not registered",
			history:     core.DomainEvents{givenBookAddedToCatalog(t, now)},
			expectedErr: core.ErrReaderNotRegistered,
		},
		{
			description: "another reader was registered",
			history: core.DomainEvents{
				givenBookAddedToCatalog(t, now),
				givenReaderRegistered(t, otherReaderID, now),
			},
			expectedErr: core.ErrReaderNotRegistered,
		},
		{
			description: "book lent to another reader",
			history: core.DomainEvents{
				givenBookAddedToCatalog(t, now),
				givenReaderRegistered(t, readerID, now),
				givenBookLentToReader(t, "loan-0", otherReaderID, now),
			},
			expectedErr: core.ErrNotAvailable,
		},
		{
			description: "book lent to the same reader",
			history: core.DomainEvents{
				givenBookAddedToCatalog(t, now),
				givenReaderRegistered(t, readerID, now),
				givenBookLentToReader(t, "loan-0", readerID, now),
			},
			expectedErr: core.ErrNotAvailable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			result := circulation.DecideBorrow(tc.history, borrowCommand(readerID, now))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expectedErr)
			failed, ok := result.Event.(core.LendingBookToReaderFailed)
			require.True(t, ok, "a rejected borrow must produce a failure event")
			assert.Equal(t, result.HasError().Error(), failed.FailureInfo)
			assert.True(t, failed.IsErrorEvent())
		})
	}
}

func Test_DecideBorrow_NotAvailable_Carries_The_Book(t *testing.T) {
	// arrange
	now := time.Now()
	history := core.DomainEvents{
		givenBookAddedToCatalog(t, now),
		givenReaderRegistered(t, readerID, now),
		givenBookLentToReader(t, "loan-0", otherReaderID, now),
	}

	// act
	result := circulation.DecideBorrow(history, borrowCommand(readerID, now))

	// assert
	var notAvailable *core.NotAvailableError
	require.ErrorAs(t, result.HasError(), &notAvailable)
	assert.Equal(t, isbn, notAvailable.ISBN)
	assert.Equal(t, title, notAvailable.Title)
}

func Test_DecideReturn_Success_ClosesTheOpenLoan(t *testing.T) {
	// arrange
	now := time.Now()
	history := core.DomainEvents{
		givenBookAddedToCatalog(t, now),
		givenReaderRegistered(t, readerID, now),
		givenBookLentToReader(t, "loan-7", readerID, now),
	}

	// act
	result := circulation.DecideReturn(history, returnCommand(readerID, now))

	// assert
	require.NoError(t, result.HasError())
	returned, ok := result.Event.(core.BookReturnedByReader)
	require.True(t, ok)
	assert.Equal(t, core.LoanIDString("loan-7"), returned.LoanID)
}

func Test_DecideReturn_Idempotent_WhenReaderReturnedItAlready(t *testing.T) {
	// arrange
	now := time.Now()
	history := core.DomainEvents{
		givenBookAddedToCatalog(t, now),
		givenReaderRegistered(t, readerID, now),
		givenBookLentToReader(t, "loan-7", readerID, now),
		givenBookReturnedByReader(t, "loan-7", readerID, now),
	}

	// act
	result := circulation.DecideReturn(history, returnCommand(readerID, now))

	// assert
	assert.True(t, result.IsIdempotent())
	assert.False(t, result.HasEventToAppend())
	assert.NoError(t, result.HasError())
}

func Test_DecideReturn_Error(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		description string
		history     core.DomainEvents
		expectedErr error
	}{
		{
			description: "book never lent",
			history:     core.DomainEvents{givenBookAddedToCatalog(t, now), givenReaderRegistered(t, readerID, now)},
			expectedErr: core.ErrNotOnLoan,
		},
		{
			description: "book on loan to another reader",
			history: core.DomainEvents{
				givenBookAddedToCatalog(t, now),
				givenBookLentToReader(t, "loan-0", otherReaderID, now),
			},
			expectedErr: core.ErrNotBorrower,
		},
		{
			description: "book returned by another reader",
			history: core.DomainEvents{
				givenBookAddedToCatalog(t, now),
				givenBookLentToReader(t, "loan-0", otherReaderID, now),
				givenBookReturnedByReader(t, "loan-0", otherReaderID, now),
			},
			expectedErr: core.ErrNotOnLoan,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			result := circulation.DecideReturn(tc.history, returnCommand(readerID, now))

			// assert
			assert.ErrorIs(t, result.HasError(), tc.expectedErr)
			assert.IsType(t, core.ReturningBookFromReaderFailed{}, result.Event)
		})
	}
}

func Test_Decide_By_Librarian(t *testing.T) {
	now := time.Now()
	lentHistory := core.DomainEvents{
		givenBookAddedToCatalog(t, now),
		givenReaderRegistered(t, readerID, now),
		givenBookLentToReader(t, "loan-7", readerID, now),
	}
	notLentHistory := core.DomainEvents{
		givenBookAddedToCatalog(t, now),
		givenReaderRegistered(t, readerID, now),
	}

	testCases := []struct {
		description string
		registered  core.DomainEvent
		expectedErr error
	}{
		{description: "registered librarian", registered: givenLibrarianRegistered(t, librarianID, now), expectedErr: nil},
		{description: "librarian not registered", registered: givenLibrarianRegistered(t, "librarian-2", now), expectedErr: core.ErrLibrarianNotRegistered},
		{description: "registered as a reader", registered: givenReaderRegistered(t, librarianID, now), expectedErr: core.ErrLibrarianNotRegistered},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// arrange
			borrow := borrowCommand(readerID, now)
			borrow.IssuedBy = librarianID
			giveBack := returnCommand(readerID, now)
			giveBack.ReceivedBy = librarianID

			// act
			borrowResult := circulation.DecideBorrow(append(slices.Clone(notLentHistory), tc.registered), borrow)
			returnResult := circulation.DecideReturn(append(slices.Clone(lentHistory), tc.registered), giveBack)

			// assert
			if tc.expectedErr == nil {
				require.NoError(t, borrowResult.HasError())
				require.NoError(t, returnResult.HasError())
				assert.Equal(t, librarianID, borrowResult.Event.(core.BookLentToReader).IssuedBy)
				assert.Equal(t, librarianID, returnResult.Event.(core.BookReturnedByReader).ReceivedBy)

				return
			}

			assert.ErrorIs(t, borrowResult.HasError(), tc.expectedErr)
			assert.IsType(t, core.LendingBookToReaderFailed{}, borrowResult.Event)
			assert.ErrorIs(t, returnResult.HasError(), tc.expectedErr)
			assert.IsType(t, core.ReturningBookFromReaderFailed{}, returnResult.Event)
		})
	}
}

func Test_BuildEventFilter_Selects_Book_And_Users(t *testing.T) {
	// act
	filter := circulation.BuildEventFilter(isbn, readerID, librarianID)

	// assert
	assert.True(t, filter.Matches(core.BookLentToReaderEventType, map[string]string{"BookISBN": isbn}))
	assert.True(t, filter.Matches(core.UserRegisteredEventType, map[string]string{"UserID": readerID}))
	assert.True(t, filter.Matches(core.UserRegisteredEventType, map[string]string{"UserID": librarianID}))
	assert.False(t, filter.Matches(core.UserRegisteredEventType, map[string]string{"UserID": otherReaderID}))
	assert.False(t, filter.Matches(core.BookLentToReaderEventType, map[string]string{"BookISBN": "other"}))
	assert.False(t, filter.Matches(core.LendingBookToReaderFailedEventType, map[string]string{"BookISBN": isbn}))
}

/***** helpers *****/

func borrowCommand(reader core.UserIDString, at time.Time) circulation.BorrowBook {
	return circulation.BuildBorrowBook("loan-1", core.NewBook(title, isbn), core.Reader{ID: reader, Name: "Anna"}, "", at)
}

func returnCommand(reader core.UserIDString, at time.Time) circulation.ReturnBook {
	return circulation.BuildReturnBook(core.NewBook(title, isbn), core.Reader{ID: reader, Name: "Anna"}, "", at)
}

func givenBookAddedToCatalog(t *testing.T, at time.Time) core.BookAddedToCatalog {
	t.Helper()

	return core.BuildBookAddedToCatalog(core.NewBook(title, isbn), at)
}

func givenBookRemovedFromCatalog(t *testing.T, at time.Time) core.BookRemovedFromCatalog {
	t.Helper()

	return core.BuildBookRemovedFromCatalog(core.NewBook(title, isbn), at)
}

func givenReaderRegistered(t *testing.T, id core.UserIDString, at time.Time) core.UserRegistered {
	t.Helper()

	return core.BuildUserRegistered(core.Reader{ID: id, Name: "Anna"}, at)
}

func givenLibrarianRegistered(t *testing.T, id core.UserIDString, at time.Time) core.UserRegistered {
	t.Helper()

	return core.BuildUserRegistered(core.Librarian{ID: id, Name: "Erko"}, at)
}

func givenBookLentToReader(t *testing.T, loanID core.LoanIDString, reader core.UserIDString, at time.Time) core.BookLentToReader {
	t.Helper()

	return core.BuildBookLentToReader(loanID, isbn, title, reader, "Anna", "", at)
}

func givenBookReturnedByReader(t *testing.T, loanID core.LoanIDString, reader core.UserIDString, at time.Time) core.BookReturnedByReader {
	t.Helper()

	return core.BuildBookReturnedByReader(loanID, isbn, title, reader, "Anna", "", at)
}
