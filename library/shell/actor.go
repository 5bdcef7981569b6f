package shell

import (
	"context"

	"github.com/AntonStoeckl/library-catalog-go/library/core"
)

type contextKey int

const (
	actorKey contextKey = iota
	correlationIDKey
)

// WithActor returns a context that carries the user who triggers the following operations.
// It ends up as ActorID in the metadata of all events recorded with that context.
func WithActor(ctx context.Context, actorID core.UserIDString) context.Context {
	return context.WithValue(ctx, actorKey, actorID)
}

// ActorFrom returns the actor set with WithActor.
func ActorFrom(ctx context.Context) (core.UserIDString, bool) {
	actorID, ok := ctx.Value(actorKey).(core.UserIDString)

	return actorID, ok && actorID != ""
}

// WithCorrelationID returns a context whose events are correlated with the given ID.
func WithCorrelationID(ctx context.Context, correlationID CorrelationID) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

// CorrelationIDFrom returns the correlation ID set with WithCorrelationID.
func CorrelationIDFrom(ctx context.Context) (CorrelationID, bool) {
	correlationID, ok := ctx.Value(correlationIDKey).(CorrelationID)

	return correlationID, ok && correlationID != ""
}
