// Package directory registers the users of the library, readers and librarians.
package directory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/AntonStoeckl/library-catalog-go/eventstore"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
	"github.com/AntonStoeckl/library-catalog-go/library/shell"
)

const RegisterUserCommandType = "RegisterUser"

const (
	logAttrUserID   = "user_id"
	logAttrUserKind = "user_kind"
)

var (
	ErrInvalidUser   = errors.New("user must not be nil and must have an ID")
	ErrDuplicateUser = errors.New("a user with this ID is already registered")
)

// Directory holds the registered users. It is safe for concurrent use.
type Directory struct {
	mu    sync.RWMutex
	users []core.User
	byID  map[core.UserIDString]core.User

	journal          *shell.Journal
	logger           shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	clock            func() time.Time
}

// New creates an empty Directory that journals into journal.
func New(journal *shell.Journal, options ...Option) (*Directory, error) {
	if journal == nil {
		return nil, shell.ErrNilJournal
	}

	d := &Directory{
		users:   make([]core.User, 0),
		byID:    make(map[core.UserIDString]core.User),
		journal: journal,
		logger:  shell.NopLogger(),
		clock:   time.Now,
	}

	for _, option := range options {
		if err := option(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// RegisterUser registers a reader or a librarian and sends the registration notification.
func (d *Directory) RegisterUser(ctx context.Context, user core.User) error {
	if user == nil || user.UserID() == "" {
		return ErrInvalidUser
	}

	startTime := time.Now()
	shell.LogCommandStart(ctx, d.logger, RegisterUserCommandType)

	err := d.register(ctx, user)
	shell.FinishCommand(ctx, d.logger, d.metricsCollector, RegisterUserCommandType, startTime, shell.StatusSuccess, shell.HandlerResult{}, err)
	if err != nil {
		return err
	}

	d.logger.InfoContext(ctx, fmt.Sprintf("%s registered as a %s.", user.DisplayName(), kindName(user.Kind())),
		logAttrUserID, user.UserID(),
		logAttrUserKind, string(user.Kind()),
	)

	return nil
}

func (d *Directory) register(ctx context.Context, user core.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.byID[user.UserID()]; exists {
		return ErrDuplicateUser
	}

	if _, err := d.journal.Record(ctx, UserStreamFilter(user.UserID()), core.BuildUserRegistered(user, d.clock())); err != nil {
		return err
	}

	d.users = append(d.users, user)
	d.byID[user.UserID()] = user

	return nil
}

// Login only sends a notification, there is no authentication.
func (d *Directory) Login(ctx context.Context, user core.User) {
	if user == nil {
		return
	}

	d.logger.InfoContext(ctx, fmt.Sprintf("%s logged in.", user.DisplayName()),
		logAttrUserID, user.UserID(),
		logAttrUserKind, string(user.Kind()),
	)
}

// IsRegistered reports whether a user with this ID is registered.
func (d *Directory) IsRegistered(id core.UserIDString) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, exists := d.byID[id]

	return exists
}

// Find returns the registered user with this ID.
func (d *Directory) Find(id core.UserIDString) (core.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, exists := d.byID[id]

	return user, exists
}

// Users returns all users in registration order. The slice is a copy.
func (d *Directory) Users() []core.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.users)
}

// Readers returns all registered readers in registration order.
func (d *Directory) Readers() []core.Reader {
	return usersOfType[core.Reader](d)
}

// Librarians returns all registered librarians in registration order.
func (d *Directory) Librarians() []core.Librarian {
	return usersOfType[core.Librarian](d)
}

func usersOfType[U core.User](d *Directory) []U {
	d.mu.RLock()
	defer d.mu.RUnlock()

	found := make([]U, 0)
	for _, user := range d.users {
		if u, ok := user.(U); ok {
			found = append(found, u)
		}
	}

	return found
}

func kindName(kind core.UserKind) string {
	if kind == core.LibrarianKind {
		return "Librarian"
	}

	return "Reader"
}

// UserStreamFilter selects the registration events of one user.
func UserStreamFilter(id core.UserIDString) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.UserRegisteredEventType).
		AndAnyPredicateOf(eventstore.P("UserID", id)).
		Finalize()
}
