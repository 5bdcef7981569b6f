package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
	"github.com/AntonStoeckl/library-catalog-go/library/shell"
)

const (
	AddBookCommandType    = "AddBook"
	RemoveBookCommandType = "RemoveBook"
)

var (
	ErrNilBook       = errors.New("book must not be nil")
	ErrEmptyISBN     = errors.New("book must have an ISBN")
	ErrDuplicateISBN = errors.New("a book with this ISBN is already in the catalog")
	ErrBookNotFound  = errors.New("book is not in the catalog")
	ErrBookOnLoan    = errors.New("book is on loan and can't be removed")
	ErrNoLibrarian   = errors.New("librarian must have an ID")
)

const (
	logAttrLibrarianID = "librarian_id"
	logAttrBookISBN    = "book_isbn"
)

// Catalog owns the books of the library. It is safe for concurrent use.
type Catalog struct {
	mu    sync.RWMutex
	books []*core.Book

	journal          *shell.Journal
	logger           shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	clock            func() time.Time
}

// New creates an empty Catalog that journals into journal.
func New(journal *shell.Journal, options ...Option) (*Catalog, error) {
	if journal == nil {
		return nil, shell.ErrNilJournal
	}

	c := &Catalog{
		books:   make([]*core.Book, 0),
		journal: journal,
		logger:  shell.NopLogger(),
		clock:   time.Now,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Add inserts a book. ISBNs are unique within the catalog.
// A new book has no loan in the journal, so it is added as available.
func (c *Catalog) Add(ctx context.Context, book *core.Book) error {
	if book == nil {
		return ErrNilBook
	}

	if book.ISBN == "" {
		return ErrEmptyISBN
	}

	startTime := time.Now()
	shell.LogCommandStart(ctx, c.logger, AddBookCommandType)

	book.Lock()
	defer book.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOfISBN(book.ISBN) >= 0 {
		shell.FinishCommand(ctx, c.logger, c.metricsCollector, AddBookCommandType, startTime, "", shell.HandlerResult{}, ErrDuplicateISBN)
		return ErrDuplicateISBN
	}

	result, err := c.journal.Record(ctx, BookStreamFilter(book.ISBN), core.BuildBookAddedToCatalog(book, c.clock()))
	if err == nil {
		book.SetAvailable(true)
		c.books = append(c.books, book)
	}

	shell.FinishCommand(ctx, c.logger, c.metricsCollector, AddBookCommandType, startTime, shell.StatusSuccess, result, err)

	return err
}

// Remove removes exactly this book (by identity, not by ISBN).
// A book with an open loan in the journal can't be removed.
func (c *Catalog) Remove(ctx context.Context, book *core.Book) error {
	if book == nil {
		return ErrNilBook
	}

	startTime := time.Now()
	shell.LogCommandStart(ctx, c.logger, RemoveBookCommandType)

	book.Lock()
	defer book.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	result, err := c.remove(ctx, book)
	shell.FinishCommand(ctx, c.logger, c.metricsCollector, RemoveBookCommandType, startTime, shell.StatusSuccess, result, err)

	return err
}

// remove must be called with the book's and the catalog's locks held.
// The removal is appended on the loan history of the book, so it conflicts with a concurrent borrow.
func (c *Catalog) remove(ctx context.Context, book *core.Book) (shell.HandlerResult, error) {
	idx := slices.Index(c.books, book)
	if idx < 0 {
		return shell.HandlerResult{}, ErrBookNotFound
	}

	filter := loanHistoryFilter(book.ISBN)
	retryMetrics, err := c.journal.Retry(ctx, RemoveBookCommandType, func(ctx context.Context) error {
		history, maxSequenceNumber, loadErr := c.journal.Load(ctx, filter)
		if loadErr != nil {
			return loadErr
		}

		if hasOpenLoan(history) {
			return ErrBookOnLoan
		}

		return c.journal.Append(ctx, filter, maxSequenceNumber, core.BuildBookRemovedFromCatalog(book, c.clock()))
	})

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	c.books = slices.Delete(c.books, idx, idx+1)

	return shell.NewSuccessResult(retryMetrics), nil
}

// AddBook adds a book on behalf of a librarian, who becomes the actor of the journaled event.
func (c *Catalog) AddBook(ctx context.Context, librarian core.Librarian, book *core.Book) error {
	if librarian.ID == "" {
		return ErrNoLibrarian
	}

	if err := c.Add(shell.WithActor(ctx, librarian.ID), book); err != nil {
		return err
	}

	c.notify(ctx, librarian, "added", book)

	return nil
}

// EditBook sends the notification that a librarian edited a book of the catalog. Nothing is journaled,
// the fields of a Book are edited in place.
func (c *Catalog) EditBook(ctx context.Context, librarian core.Librarian, book *core.Book) error {
	if librarian.ID == "" {
		return ErrNoLibrarian
	}

	if book == nil {
		return ErrNilBook
	}

	if !c.Contains(book) {
		return ErrBookNotFound
	}

	c.notify(ctx, librarian, "edited", book)

	return nil
}

// RemoveBook removes a book on behalf of a librarian, see Remove.
func (c *Catalog) RemoveBook(ctx context.Context, librarian core.Librarian, book *core.Book) error {
	if librarian.ID == "" {
		return ErrNoLibrarian
	}

	if err := c.Remove(shell.WithActor(ctx, librarian.ID), book); err != nil {
		return err
	}

	c.notify(ctx, librarian, "removed", book)

	return nil
}

func (c *Catalog) notify(ctx context.Context, librarian core.Librarian, verb string, book *core.Book) {
	c.logger.InfoContext(ctx, fmt.Sprintf("%s %s %s", librarian.Name, verb, book.Info()),
		logAttrLibrarianID, librarian.ID,
		logAttrBookISBN, book.ISBN,
	)
}

// SearchByTitle returns the books whose title contains query, ignoring case.
func (c *Catalog) SearchByTitle(query string) []*core.Book {
	return c.search(query, func(b *core.Book) []string { return []string{b.Title} })
}

// SearchByAuthor returns the books with at least one author whose name contains query, ignoring case.
func (c *Catalog) SearchByAuthor(query string) []*core.Book {
	return c.search(query, func(b *core.Book) []string {
		names := make([]string, 0, len(b.Authors))
		for _, author := range b.Authors {
			names = append(names, author.Name)
		}

		return names
	})
}

// SearchByGenre returns the books whose genre contains query, ignoring case.
func (c *Catalog) SearchByGenre(query string) []*core.Book {
	return c.search(query, func(b *core.Book) []string { return []string{b.Genre} })
}

// Search returns the books whose Info line contains query, ignoring case.
func (c *Catalog) Search(query string) []*core.Book {
	return c.search(query, func(b *core.Book) []string { return []string{b.Info()} })
}

// FindByISBN returns the book with exactly this ISBN.
func (c *Catalog) FindByISBN(isbn core.ISBNString) (*core.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx := c.indexOfISBN(isbn)
	if idx < 0 {
		return nil, false
	}

	return c.books[idx], true
}

// Contains reports whether exactly this book is in the catalog.
func (c *Catalog) Contains(book *core.Book) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Contains(c.books, book)
}

// Books returns all books in insertion order. The slice is a copy.
func (c *Catalog) Books() []*core.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.books)
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.books)
}

// search scans all books in insertion order and returns a new, never nil, slice.
func (c *Catalog) search(query string, fields func(*core.Book) []string) []*core.Book {
	query = strings.ToLower(query)
	found := make([]*core.Book, 0)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, book := range c.books {
		if slices.ContainsFunc(fields(book), func(field string) bool {
			return strings.Contains(strings.ToLower(field), query)
		}) {
			found = append(found, book)
		}
	}

	return found
}

// indexOfISBN must be called with the lock held.
func (c *Catalog) indexOfISBN(isbn core.ISBNString) int {
	return slices.IndexFunc(c.books, func(b *core.Book) bool { return b.ISBN == isbn })
}

// BookStreamFilter selects the catalog events of one book.
func BookStreamFilter(isbn core.ISBNString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookAddedToCatalogEventType, core.BookRemovedFromCatalogEventType).
		AndAnyPredicateOf(eventstore.P("BookISBN", isbn)).
		Finalize()
}

// loanHistoryFilter selects the catalog and loan events of one book.
func loanHistoryFilter(isbn core.ISBNString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.BookRemovedFromCatalogEventType,
			core.BookLentToReaderEventType,
			core.BookReturnedByReaderEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookISBN", isbn)).
		Finalize()
}

func hasOpenLoan(history core.DomainEvents) bool {
	onLoan := false

	for _, event := range history {
		switch event.(type) {
		case core.BookLentToReader:
			onLoan = true
		case core.BookReturnedByReader:
			onLoan = false
		}
	}

	return onLoan
}
