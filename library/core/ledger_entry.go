package core

import (
	"fmt"
	"time"
)

// LedgerEntryKind is either an issue or a return.
type LedgerEntryKind string

const (
	IssueEntry  LedgerEntryKind = "issue"
	ReturnEntry LedgerEntryKind = "return"
)

// LedgerEntry is an immutable record of one issue or return.
type LedgerEntry struct {
	Kind           LedgerEntryKind
	ReaderName     string
	BookTitle      string
	BookISBN       ISBNString
	OccurredAt     time.Time
	SequenceNumber uint
}

func (e LedgerEntry) String() string {
	verb := "borrowed"
	if e.Kind == ReturnEntry {
		verb = "returned"
	}

	return fmt.Sprintf("%s %s '%s' on %s", e.ReaderName, verb, e.BookTitle, e.OccurredAt.Format(time.DateTime))
}
