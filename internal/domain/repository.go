// Package domain provides the types shared by every domain package.
package domain

import (
	"context"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
)

// --- Filter & Pagination ---

// ListFilter contains common filtering options for list operations.
type ListFilter struct {
	// Search matches name-like fields (case-insensitive substring)
	Search string

	// ModeratorID restricts records to one moderator
	ModeratorID *id.ID

	// CustomerID restricts records to one customer
	CustomerID *id.ID

	// Area restricts customers to a delivery area
	Area string

	// From and To bound the business day (inclusive); zero means open
	From types.Day
	To   types.Day

	// Pagination
	Limit  int
	Offset int
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: defaultLimit}
}

// Normalize clamps pagination and checks the day range.
func (f *ListFilter) Normalize() error {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return apperror.NewValidation("to must not be before from").
			WithDetail("from", f.From.String()).
			WithDetail("to", f.To.String())
	}
	return nil
}

// ListResult contains paginated results.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	BeforeDelete HookEvent = "before_delete"
)

// Hook is a function that runs at specific lifecycle points.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}
