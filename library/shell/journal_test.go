package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
	"github.com/AntonStoeckl/library-catalog-go/eventstore/memengine"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
	"github.com/AntonStoeckl/library-catalog-go/library/shell"
	"github.com/AntonStoeckl/library-catalog-go/testutil/helper"
)

func Test_Journal_Append_And_Load(t *testing.T) {
	// setup
	ctx := shell.WithActor(context.Background(), "librarian-1")
	journal := givenJournal(t, givenEventStore(t))
	filter := filterForBook("978-0")
	occurredAt := time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.UTC)

	// arrange
	added := core.BuildBookAddedToCatalog(
		core.NewBook("War and Peace", "978-0", core.WithAuthors("Leo Tolstoy"), core.WithPublicationYear(1869)),
		occurredAt,
	)
	lent := core.BuildBookLentToReader("loan-1", "978-0", "War and Peace", "reader-1", "Anna Karenina", "", occurredAt)

	// act
	require.NoError(t, journal.Append(ctx, filter, 0, added))
	require.NoError(t, journal.Append(ctx, filter, 1, lent))
	history, maxSequenceNumber, err := journal.Load(ctx, filter)

	// assert
	require.NoError(t, err)
	assert.Equal(t, uint(2), maxSequenceNumber)
	assert.Equal(t, core.DomainEvents{added, lent}, history)
	assert.Equal(t, occurredAt.Truncate(time.Microsecond), history[1].HasOccurredAt())
}

func Test_Journal_LoadEnvelopes_Carries_Metadata(t *testing.T) {
	// setup
	ctx := shell.WithCorrelationID(shell.WithActor(context.Background(), "librarian-1"), "correlation-1")
	journal := givenJournal(t, givenEventStore(t))
	filter := filterForBook("978-0")

	// arrange
	require.NoError(t, journal.Append(ctx, filter, 0, core.BuildBookRemovedFromCatalog(core.NewBook("T", "978-0"), time.Now())))

	// act
	envelopes, _, err := journal.LoadEnvelopes(context.Background(), filter)

	// assert
	require.NoError(t, err)
	require.Len(t, envelopes, 1)
	assert.Equal(t, "librarian-1", envelopes[0].EventMetadata.ActorID)
	assert.Equal(t, "correlation-1", envelopes[0].EventMetadata.CorrelationID)
	assert.Equal(t, "correlation-1", envelopes[0].EventMetadata.CausationID)
	assert.NotEmpty(t, envelopes[0].EventMetadata.MessageID)
	assert.Equal(t, uint(1), envelopes[0].SequenceNumber)
}

func Test_Journal_Append_With_Stale_SequenceNumber_Conflicts(t *testing.T) {
	// setup
	ctx := context.Background()
	journal := givenJournal(t, givenEventStore(t))
	filter := filterForBook("978-0")

	// arrange
	require.NoError(t, journal.Append(ctx, filter, 0, core.BuildBookAddedToCatalog(core.NewBook("T", "978-0"), time.Now())))

	// act
	err := journal.Append(ctx, filter, 0, core.BuildBookRemovedFromCatalog(core.NewBook("T", "978-0"), time.Now()))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
}

func Test_Journal_Record_Retries_On_Conflict(t *testing.T) {
	// setup
	ctx := context.Background()
	store := helper.NewConflictingEventStore(givenEventStore(t), 2)
	metrics := helper.NewMetricsCollectorSpy()
	journal := givenJournal(t, store,
		shell.WithRetryOptions(shell.WithBaseDelay(time.Millisecond)),
		shell.WithJournalMetrics(metrics),
	)

	// act
	result, err := journal.Record(ctx, filterForBook("978-0"), core.BuildBookAddedToCatalog(core.NewBook("T", "978-0"), time.Now()))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, result.RetryAttempts)
	assert.Equal(t, 3, store.AppendCalls())
	assert.Equal(t, 2, metrics.CountCounterRecordsForMetric(shell.CommandHandlerRetriesMetric))
}

func Test_Journal_Record_Fails_Fast_On_Other_Errors(t *testing.T) {
	// setup
	ctx := context.Background()
	storeErr := errors.New("store is down")
	journal := givenJournal(t, helper.FailingEventStore{AppendErr: storeErr})

	// act
	result, err := journal.Record(ctx, filterForBook("978-0"), core.BuildBookAddedToCatalog(core.NewBook("T", "978-0"), time.Now()))

	// assert
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 1, result.RetryAttempts)
	assert.Equal(t, "other", result.LastErrorType)
}

func Test_NewJournal_Fails(t *testing.T) {
	// act
	_, nilStoreErr := shell.NewJournal(nil)
	_, nilMetricsErr := shell.NewJournal(helper.FailingEventStore{}, shell.WithJournalMetrics(nil))

	// assert
	assert.ErrorIs(t, nilStoreErr, eventstore.ErrNilEventStore)
	assert.ErrorIs(t, nilMetricsErr, shell.ErrNilOption)
}

func Test_DomainEventFrom_Unknown_EventType(t *testing.T) {
	// arrange
	storableEvent, err := eventstore.BuildStorableEventWithEmptyMetadata("SomethingElse", time.Now(), []byte(`{}`))
	require.NoError(t, err)

	// act
	_, mappingErr := shell.DomainEventFrom(storableEvent)

	// assert
	assert.ErrorIs(t, mappingErr, shell.ErrMappingToDomainEventFailed)
	assert.ErrorIs(t, mappingErr, shell.ErrMappingToDomainEventUnknownEventType)
}

func Test_ClassifyBusinessOutcome(t *testing.T) {
	failed := core.BuildLendingBookToReaderFailed("1", "r-1", "book is not available", time.Now())

	assert.Equal(t, shell.StatusIdempotent, shell.ClassifyBusinessOutcome(core.IdempotentDecision()))
	assert.Equal(t, shell.StatusSuccess, shell.ClassifyBusinessOutcome(core.SuccessDecision(failed)))
	assert.Equal(t, shell.StatusError, shell.ClassifyBusinessOutcome(core.ErrorDecision(failed, core.ErrNotAvailable)))
}

/***** helpers *****/

func givenEventStore(t *testing.T) *memengine.EventStore {
	t.Helper()

	es, err := memengine.NewEventStore()
	require.NoError(t, err, "error in arranging test data")

	return es
}

func givenJournal(t *testing.T, store shell.EventStore, options ...shell.JournalOption) *shell.Journal {
	t.Helper()

	journal, err := shell.NewJournal(store, options...)
	require.NoError(t, err, "error in arranging test data")

	return journal
}

func filterForBook(isbn string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("BookISBN", isbn)).
		Finalize()
}
