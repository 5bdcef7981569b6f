package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-catalog-go/library/core"
)

func Test_LedgerEntry_String(t *testing.T) {
	occurredAt := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		description string
		kind        core.LedgerEntryKind
		expected    string
	}{
		{description: "issue", kind: core.IssueEntry, expected: "Leo Tolstoy borrowed 'War and Peace' on 2024-03-01 10:30:00"},
		{description: "return", kind: core.ReturnEntry, expected: "Leo Tolstoy returned 'War and Peace' on 2024-03-01 10:30:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			// arrange
			entry := core.LedgerEntry{
				Kind:       tc.kind,
				ReaderName: "Leo Tolstoy",
				BookTitle:  "War and Peace",
				BookISBN:   "1",
				OccurredAt: occurredAt,
			}

			// act & assert
			assert.Equal(t, tc.expected, entry.String())
		})
	}
}

func Test_ToOccurredAt_Normalizes_To_UTC_Microseconds(t *testing.T) {
	// arrange
	local := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.FixedZone("CET", 3600))

	// act
	occurredAt := core.ToOccurredAt(local)

	// assert
	assert.Equal(t, time.UTC, occurredAt.Location())
	assert.Equal(t, 123456000, occurredAt.Nanosecond())
	assert.Equal(t, 11, occurredAt.Hour())
}
