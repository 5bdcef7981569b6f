package core

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Author of a book.
type Author struct {
	Name string
}

// Book is a single book in the catalog. A Book is shared by pointer between the catalog and the circulation.
//
// The book is available if and only if no open Loan references it.
// The zero value is available, so a Book literal starts out available like NewBook does.
// Availability is changed while holding the book's lock, by the circulation and when the catalog adds the book.
type Book struct {
	Title           string
	ISBN            ISBNString
	Authors         []Author
	Genre           string // optional
	PublicationYear int    // optional, 0 means unknown

	mu     sync.Mutex
	onLoan atomic.Bool
}

// BookOption sets the optional fields of a Book.
type BookOption func(*Book)

// WithGenre sets the genre of a Book.
func WithGenre(genre string) BookOption {
	return func(b *Book) {
		b.Genre = genre
	}
}

// WithPublicationYear sets the publication year of a Book.
func WithPublicationYear(year int) BookOption {
	return func(b *Book) {
		b.PublicationYear = year
	}
}

// WithAuthors adds authors to a Book.
func WithAuthors(names ...string) BookOption {
	return func(b *Book) {
		for _, name := range names {
			b.Authors = append(b.Authors, Author{Name: name})
		}
	}
}

// NewBook creates an available Book.
func NewBook(title string, isbn ISBNString, options ...BookOption) *Book {
	book := &Book{
		Title:   title,
		ISBN:    isbn,
		Authors: make([]Author, 0),
	}

	for _, option := range options {
		option(book)
	}

	return book
}

// IsAvailable reports whether the book can be borrowed.
func (b *Book) IsAvailable() bool {
	return !b.onLoan.Load()
}

// SetAvailable flips the availability flag. Callers must hold the book's lock.
func (b *Book) SetAvailable(available bool) {
	b.onLoan.Store(!available)
}

// Lock serializes availability transitions and removal of this book.
func (b *Book) Lock() {
	b.mu.Lock()
}

// Unlock releases the lock taken with Lock.
func (b *Book) Unlock() {
	b.mu.Unlock()
}

// AuthorNames joins the names of all authors with ", ".
func (b *Book) AuthorNames() string {
	names := make([]string, 0, len(b.Authors))
	for _, author := range b.Authors {
		names = append(names, author.Name)
	}

	return strings.Join(names, ", ")
}

// Info renders all fields of the book in one line.
func (b *Book) Info() string {
	return fmt.Sprintf(
		"Title: %s, Author: %s, Genre: %s, ISBN: %s, Year: %d, Available: %t",
		b.Title, b.AuthorNames(), b.Genre, b.ISBN, b.PublicationYear, b.IsAvailable(),
	)
}

func (b *Book) String() string {
	return b.Info()
}
