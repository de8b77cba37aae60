// Package documents holds what the transaction record services share.
package documents

import (
	"context"

	"aquaops/internal/core/apperror"
	appctx "aquaops/internal/core/context"
	"aquaops/internal/core/id"
)

// ResolveModerator determines whose round a new record belongs to.
// Moderators always act for themselves; administrators must name the moderator.
func ResolveModerator(ctx context.Context, requested id.ID) (id.ID, error) {
	actor := appctx.GetActor(ctx)
	if actor == nil {
		return id.Nil(), apperror.NewUnauthorized("actor is required")
	}

	if actor.IsAdmin() {
		if id.IsNil(requested) {
			return id.Nil(), apperror.NewValidation("moderator is required").
				WithDetail("field", "moderatorId")
		}
		return requested, nil
	}

	own, err := id.Parse(actor.ID)
	if err != nil {
		return id.Nil(), apperror.NewUnauthorized("invalid actor id")
	}
	if !id.IsNil(requested) && requested != own {
		return id.Nil(), apperror.NewForbidden("moderators can only record their own work")
	}
	return own, nil
}

// CheckOwner fails unless the actor is an administrator or the moderator
// that owns the record.
func CheckOwner(ctx context.Context, moderatorID id.ID) error {
	actor := appctx.GetActor(ctx)
	if actor == nil {
		return apperror.NewUnauthorized("actor is required")
	}
	if actor.IsAdmin() || actor.ID == moderatorID.String() {
		return nil
	}
	return apperror.NewForbidden("record belongs to another moderator").
		WithDetail("moderator_id", moderatorID)
}

// ScopeToActor narrows a list query to the actor's own records unless the
// actor is an administrator.
func ScopeToActor(ctx context.Context, moderatorID *id.ID) (*id.ID, error) {
	actor := appctx.GetActor(ctx)
	if actor == nil {
		return nil, apperror.NewUnauthorized("actor is required")
	}
	if actor.IsAdmin() {
		return moderatorID, nil
	}
	own, err := id.Parse(actor.ID)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid actor id")
	}
	return &own, nil
}
