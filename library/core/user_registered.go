package core

import (
	"time"
)

// UserRegisteredEventType is the event type identifier.
const UserRegisteredEventType = "UserRegistered"

// UserRegistered represents when a reader or a librarian is registered in the directory.
type UserRegistered struct {
	UserID       UserIDString
	Name         string
	Email        string
	UserKind     UserKind
	TicketNumber string
	OccurredAt   OccurredAtTS
}

// BuildUserRegistered creates a new UserRegistered event.
func BuildUserRegistered(user User, occurredAt time.Time) UserRegistered {
	event := UserRegistered{
		UserID:     user.UserID(),
		Name:       user.DisplayName(),
		UserKind:   user.Kind(),
		OccurredAt: ToOccurredAt(occurredAt),
	}

	switch u := user.(type) {
	case Reader:
		event.Email = u.Email
		event.TicketNumber = u.TicketNumber
	case Librarian:
		event.Email = u.Email
	}

	return event
}

// IsEventType returns the event type identifier.
func (e UserRegistered) IsEventType() string {
	return UserRegisteredEventType
}

// HasOccurredAt returns when this event occurred.
func (e UserRegistered) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// IsErrorEvent returns false since this event represents a successful operation.
func (e UserRegistered) IsErrorEvent() bool {
	return false
}
