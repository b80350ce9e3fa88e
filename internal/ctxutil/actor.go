// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ActorKey is the context key for the operator or system that triggered an action.
type ActorKey struct{}

// EventKey is the context key for the ID of the event being handled.
type EventKey struct{}

// WithActorID returns a context with the actor ID embedded.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ActorKey{}).(string); ok {
		return v
	}
	return ""
}

// WithEventID returns a context tagged with the event being handled.
func WithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, EventKey{}, eventID)
}

// EventIDFromContext returns the event ID from context, or empty string if not set.
func EventIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(EventKey{}).(string); ok {
		return v
	}
	return ""
}
