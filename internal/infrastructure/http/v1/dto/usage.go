package dto

import (
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/registers/usage"
)

// TakeBottlesRequest loads filled bottles onto a moderator. Administrators
// name the moderator; moderators leave it empty.
type TakeBottlesRequest struct {
	ModeratorID   id.ID `json:"moderatorId"`
	FilledBottles int64 `json:"filledBottles" binding:"min=0"`
	Caps          int64 `json:"caps" binding:"min=0"`
}

// ToInput converts the request.
func (r TakeBottlesRequest) ToInput() usage.TakeInput {
	return usage.TakeInput{Filled: r.FilledBottles, Caps: r.Caps}
}

// ReturnBottlesRequest hands bottles back to the plant.
type ReturnBottlesRequest struct {
	ModeratorID      id.ID `json:"moderatorId"`
	EmptyBottles     int64 `json:"emptyBottles" binding:"min=0"`
	RemainingBottles int64 `json:"remainingBottles" binding:"min=0"`
	Caps             int64 `json:"caps" binding:"min=0"`
}

// ToInput converts the request.
func (r ReturnBottlesRequest) ToInput() usage.ReturnInput {
	return usage.ReturnInput{Empty: r.EmptyBottles, Remaining: r.RemainingBottles, Caps: r.Caps}
}

// MarkDoneRequest toggles the done flag of a day.
type MarkDoneRequest struct {
	ModeratorID id.ID     `json:"moderatorId"`
	Day         types.Day `json:"day"`
	Done        bool      `json:"done"`
}

// ToInput converts the request.
func (r MarkDoneRequest) ToInput() usage.DoneInput {
	return usage.DoneInput{Day: r.Day, Done: r.Done}
}
