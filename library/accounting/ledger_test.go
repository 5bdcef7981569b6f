package accounting_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
	"github.com/AntonStoeckl/library-catalog-go/eventstore/memengine"
	"github.com/AntonStoeckl/library-catalog-go/library/accounting"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
	"github.com/AntonStoeckl/library-catalog-go/library/shell"
	"github.com/AntonStoeckl/library-catalog-go/testutil/helper"
)

var issuedAt = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func Test_Ledger_Issue_Then_Return_Yields_Two_Entries_In_Order(t *testing.T) {
	// setup
	ctx := context.Background()
	ledger := givenLedger(t)
	filter := filterForBook("1")

	// arrange
	lent := core.BuildBookLentToReader("loan-1", "1", "War and Peace", "reader-1", "Anna Karenina", "", issuedAt)
	returned := core.BuildBookReturnedByReader("loan-1", "1", "War and Peace", "reader-1", "Anna Karenina", "", issuedAt.Add(time.Hour))

	// act
	require.NoError(t, ledger.Issue(ctx, filter, 0, lent))
	require.NoError(t, ledger.ReturnBook(ctx, filter, 1, returned))
	entries, err := ledger.Entries(ctx)

	// assert
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, core.IssueEntry, entries[0].Kind)
	assert.Equal(t, core.ReturnEntry, entries[1].Kind)
	assert.Equal(t, uint(1), entries[0].SequenceNumber)
	assert.Equal(t, uint(2), entries[1].SequenceNumber)
	assert.Equal(t, "Anna Karenina borrowed 'War and Peace' on 2024-03-01 10:30:00", entries[0].String())
	assert.Equal(t, "Anna Karenina returned 'War and Peace' on 2024-03-01 11:30:00", entries[1].String())
}

func Test_Ledger_Entries_Are_Not_Shared(t *testing.T) {
	// setup
	ctx := context.Background()
	ledger := givenLedger(t)

	// arrange
	require.NoError(t, ledger.Issue(ctx, filterForBook("1"),
		0, core.BuildBookLentToReader("loan-1", "1", "War and Peace", "reader-1", "Anna", "", issuedAt)))

	// act
	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	entries[0].ReaderName = "Mallory"

	// assert
	again, err := ledger.Entries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Anna", again[0].ReaderName)
}

func Test_Ledger_Issue_With_Stale_SequenceNumber_Conflicts(t *testing.T) {
	// setup
	ctx := context.Background()
	ledger := givenLedger(t)
	filter := filterForBook("1")

	// arrange
	require.NoError(t, ledger.Issue(ctx, filter,
		0, core.BuildBookLentToReader("loan-1", "1", "War and Peace", "reader-1", "Anna", "", issuedAt)))

	// act
	err := ledger.Issue(ctx, filter,
		0, core.BuildBookLentToReader("loan-2", "1", "War and Peace", "reader-2", "Boris", "", issuedAt))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	entries, entriesErr := ledger.Entries(ctx)
	require.NoError(t, entriesErr)
	assert.Len(t, entries, 1)
}

func Test_Ledger_RecordFailure(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler, logger := helper.NewSpyLogger()
	ledger := givenLedger(t, accounting.WithLogger(logger))
	filter := filterForBook("1")

	// act
	failureErr := ledger.RecordFailure(ctx, filter, 0,
		core.BuildLendingBookToReaderFailed("1", "reader-1", "book is not available", issuedAt))
	successErr := ledger.RecordFailure(ctx, filter, 1,
		core.BuildBookLentToReader("loan-1", "1", "War and Peace", "reader-1", "Anna", "", issuedAt))
	nilErr := ledger.RecordFailure(ctx, filter, 1, nil)

	// assert
	require.NoError(t, failureErr)
	assert.ErrorIs(t, successErr, accounting.ErrNotAFailureEvent)
	assert.ErrorIs(t, nilErr, accounting.ErrNotAFailureEvent)
	assert.True(t, logHandler.HasInfoLogWithMessage("ledger failure recorded").
		WithAttrValue("event_type", core.LendingBookToReaderFailedEventType).
		WithAttrValue("reader_id", "reader-1").
		Assert())

	entries, err := ledger.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries, "failures are journaled but they are no ledger entries")
}

func Test_Ledger_PrintLog(t *testing.T) {
	// setup
	ctx := context.Background()
	ledger := givenLedger(t)
	var out bytes.Buffer

	// arrange
	require.NoError(t, ledger.Issue(ctx, filterForBook("1"),
		0, core.BuildBookLentToReader("loan-1", "1", "War and Peace", "reader-1", "Anna", "", issuedAt)))
	require.NoError(t, ledger.Issue(ctx, filterForBook("2"),
		0, core.BuildBookLentToReader("loan-2", "2", "Dune", "reader-2", "Boris", "", issuedAt.Add(time.Minute))))

	// act
	err := ledger.PrintLog(ctx, &out)

	// assert
	require.NoError(t, err)
	assert.Equal(t,
		"Issued Books Log:\n"+
			"Anna borrowed 'War and Peace' on 2024-03-01 10:30:00\n"+
			"Boris borrowed 'Dune' on 2024-03-01 10:31:00\n",
		out.String(),
	)
}

func Test_Ledger_PrintLog_Empty(t *testing.T) {
	// setup
	var out bytes.Buffer

	// act
	err := givenLedger(t).PrintLog(context.Background(), &out)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "Issued Books Log:\n", out.String())
}

func Test_NewLedger_Fails(t *testing.T) {
	// act
	_, nilJournalErr := accounting.NewLedger(nil)
	_, nilLoggerErr := accounting.NewLedger(givenJournal(t), accounting.WithLogger(nil))

	// assert
	assert.ErrorIs(t, nilJournalErr, shell.ErrNilJournal)
	assert.ErrorIs(t, nilLoggerErr, shell.ErrNilOption)
}

/***** helpers *****/

func givenJournal(t *testing.T) *shell.Journal {
	t.Helper()

	es, err := memengine.NewEventStore()
	require.NoError(t, err, "error in arranging test data")

	journal, err := shell.NewJournal(es)
	require.NoError(t, err, "error in arranging test data")

	return journal
}

func givenLedger(t *testing.T, options ...accounting.Option) *accounting.Ledger {
	t.Helper()

	ledger, err := accounting.NewLedger(givenJournal(t), options...)
	require.NoError(t, err, "error in arranging test data")

	return ledger
}

func filterForBook(isbn core.ISBNString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookISBN", isbn)).
		Finalize()
}
