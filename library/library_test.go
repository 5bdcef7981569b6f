package library_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-catalog-go/library"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
	"github.com/AntonStoeckl/library-catalog-go/library/shell"
	"github.com/AntonStoeckl/library-catalog-go/testutil/helper"
)

var fixedTime = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func Test_Borrow_Borrow_Return_End_To_End(t *testing.T) {
	// setup
	ctx := context.Background()
	lib := givenLibrary(t)

	// arrange
	book := core.NewBook("B", "1")
	require.NoError(t, lib.Catalog.Add(ctx, book), "error in arranging test data")
	require.True(t, book.IsAvailable())
	reader := core.NewReader("R", "", "r@example.com", "T-1")
	require.NoError(t, lib.Directory.RegisterUser(ctx, reader), "error in arranging test data")

	// act
	_, firstErr := lib.Circulation.Borrow(ctx, book, reader)
	availableAfterFirst := book.IsAvailable()
	entriesAfterFirst := givenLedgerEntries(t, ctx, lib)

	_, secondErr := lib.Circulation.Borrow(ctx, book, reader)
	availableAfterSecond := book.IsAvailable()
	entriesAfterSecond := givenLedgerEntries(t, ctx, lib)

	_, returnErr := lib.Circulation.Return(ctx, book, reader)
	entriesAfterReturn := givenLedgerEntries(t, ctx, lib)

	// assert
	require.NoError(t, firstErr)
	assert.False(t, availableAfterFirst)
	assert.Len(t, entriesAfterFirst, 1)

	assert.ErrorIs(t, secondErr, core.ErrNotAvailable)
	assert.False(t, availableAfterSecond)
	assert.Equal(t, entriesAfterFirst, entriesAfterSecond)

	require.NoError(t, returnErr)
	assert.True(t, book.IsAvailable())
	require.Len(t, entriesAfterReturn, 2)
	assert.Equal(t, entriesAfterFirst[0], entriesAfterReturn[0], "ledger entries are never changed")
	assert.Equal(t, core.ReturnEntry, entriesAfterReturn[1].Kind)
	assert.Less(t, entriesAfterReturn[0].SequenceNumber, entriesAfterReturn[1].SequenceNumber)
}

func Test_RunDemo(t *testing.T) {
	// setup
	ctx := context.Background()
	logHandler, logger := helper.NewSpyLogger()
	lib := givenLibrary(t, library.WithLogger(logger))
	var out bytes.Buffer

	// act
	err := library.RunDemo(ctx, lib, &out)

	// assert
	require.NoError(t, err)
	assert.Equal(t,
		"Title: Voina i mir, Author: Lev Tolstoi, Genre: Roman, ISBN: 1, Year: 1998, Available: true\n"+
			"book is not available: 'Voina i mir' (ISBN 1)\n"+
			"Generating book report\n"+
			"Generating reader report\n"+
			"Issued Books Log:\n"+
			"Manat Murat borrowed 'Voina i mir' on 2024-03-01 10:30:00\n"+
			"Manat Murat returned 'Voina i mir' on 2024-03-01 10:30:00\n",
		out.String(),
	)
	assert.True(t, logHandler.HasInfoLogWithMessage("Erko registered as a Librarian.").Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage("Manat Murat registered as a Reader.").Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage("Manat Murat logged in.").Assert())
	assert.True(t, logHandler.HasInfoLogWithMessage(
		"Erko added Title: Abay joly, Author: Muhtar Auezov, Genre: Biography, ISBN: 2, Year: 0, Available: true").
		WithAttrValue("book_isbn", "2").
		Assert())

	book, found := lib.Catalog.FindByISBN("1")
	require.True(t, found)
	assert.True(t, book.IsAvailable())
	assert.Len(t, lib.Circulation.Loans(), 1)
}

func Test_Setup_Wires_Metrics(t *testing.T) {
	// setup
	ctx := context.Background()
	metrics := helper.NewMetricsCollectorSpy()
	lib := givenLibrary(t, library.WithMetrics(metrics))

	// act
	require.NoError(t, lib.Catalog.Add(ctx, core.NewBook("B", "1")))

	// assert
	assert.Equal(t, 1, metrics.CountCounterRecordsForMetric(shell.CommandHandlerCallsMetric))
	assert.Positive(t, metrics.CountDurationRecordsForMetric("eventstore_append_duration_seconds"))
	assert.Equal(t, 1, lib.Store.Len())
}

func Test_Setup_Fails(t *testing.T) {
	testCases := []struct {
		description string
		option      library.Option
	}{
		{description: "nil logger", option: library.WithLogger(nil)},
		{description: "nil metrics", option: library.WithMetrics(nil)},
		{description: "nil clock", option: library.WithClock(nil)},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// act
			_, err := library.Setup(tc.option)

			// assert
			assert.Error(t, err)
		})
	}
}

/***** helpers *****/

func givenLibrary(t *testing.T, options ...library.Option) *library.Library {
	t.Helper()

	options = append(options, library.WithClock(func() time.Time { return fixedTime }))
	lib, err := library.Setup(options...)
	require.NoError(t, err, "error in arranging test data")

	return lib
}

func givenLedgerEntries(t *testing.T, ctx context.Context, lib *library.Library) []core.LedgerEntry {
	t.Helper()

	entries, err := lib.Ledger.Entries(ctx)
	require.NoError(t, err, "error in arranging test data")

	return entries
}
