package core

import (
	"strings"

	"github.com/google/uuid"
)

// UserKind tells a Reader from a Librarian.
type UserKind string

const (
	ReaderKind    UserKind = "reader"
	LibrarianKind UserKind = "librarian"
)

// User is either a Reader or a Librarian. The interface is sealed.
type User interface {
	UserID() UserIDString
	DisplayName() string
	Kind() UserKind
	isUser()
}

// Reader borrows books. Readers are immutable.
type Reader struct {
	ID           UserIDString
	Name         string
	Email        string
	TicketNumber string
}

// NewReader creates a Reader with a fresh ID, first and last name are joined with a space.
func NewReader(firstName string, lastName string, email string, ticketNumber string) Reader {
	return Reader{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Name:         strings.TrimSpace(firstName + " " + lastName),
		Email:        email,
		TicketNumber: ticketNumber,
	}
}

func (r Reader) UserID() UserIDString { return r.ID }
func (r Reader) DisplayName() string  { return r.Name }
func (r Reader) Kind() UserKind       { return ReaderKind }
func (r Reader) isUser()              {}

// Librarian maintains the catalog and issues books to readers.
type Librarian struct {
	ID    UserIDString
	Name  string
	Email string
}

// NewLibrarian creates a Librarian with a fresh ID.
func NewLibrarian(name string, email string) Librarian {
	return Librarian{
		ID:    uuid.Must(uuid.NewV7()).String(),
		Name:  name,
		Email: email,
	}
}

func (l Librarian) UserID() UserIDString { return l.ID }
func (l Librarian) DisplayName() string  { return l.Name }
func (l Librarian) Kind() UserKind       { return LibrarianKind }
func (l Librarian) isUser()              {}
