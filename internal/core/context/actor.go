// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Role is the dashboard role of an authenticated actor.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleModerator
}

// Actor is the already-authenticated caller of a ledger operation.
// For moderators ID is the moderator record ID.
type Actor struct {
	ID        string
	Name      string
	Role      Role
	SessionID string
}

// IsAdmin reports whether the actor has administrative rights.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

type actorContextKey struct{}

// WithActor adds Actor to context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns Actor from context.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorContextKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// GetActorID returns actor ID from context or empty string.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ID
	}
	return ""
}

// GetRole returns the actor role or empty string.
func GetRole(ctx context.Context) Role {
	if a := GetActor(ctx); a != nil {
		return a.Role
	}
	return ""
}
