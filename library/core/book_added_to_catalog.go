package core

import (
	"time"
)

// BookAddedToCatalogEventType is the event type identifier.
const BookAddedToCatalogEventType = "BookAddedToCatalog"

// BookAddedToCatalog represents when a book is added to the catalog.
type BookAddedToCatalog struct {
	BookISBN        ISBNString
	Title           string
	Authors         string
	Genre           string
	PublicationYear int
	OccurredAt      OccurredAtTS
}

// BuildBookAddedToCatalog creates a new BookAddedToCatalog event.
func BuildBookAddedToCatalog(book *Book, occurredAt time.Time) BookAddedToCatalog {
	event := BookAddedToCatalog{
		BookISBN:        book.ISBN,
		Title:           book.Title,
		Authors:         book.AuthorNames(),
		Genre:           book.Genre,
		PublicationYear: book.PublicationYear,
		OccurredAt:      ToOccurredAt(occurredAt),
	}

	return event
}

// IsEventType returns the event type identifier.
func (e BookAddedToCatalog) IsEventType() string {
	return BookAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e BookAddedToCatalog) IsErrorEvent() bool {
	return false
}
