// Package usage provides the per moderator, per day BottleUsage register.
package usage

import (
	"aquaops/internal/core/entity"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/reconcile"
)

// BottleUsage tracks what one moderator took, sold and returned on one day.
type BottleUsage struct {
	entity.BaseEntity
	reconcile.UsageCounters

	ModeratorID id.ID     `db:"moderator_id" json:"moderatorId"`
	Day         types.Day `db:"day" json:"day"`
	// Done is advisory: the moderator considers the round closed.
	Done bool `db:"done" json:"done"`
}

// NewBottleUsage opens a record for day. Bottles still held from prev
// (remaining and empty) are carried forward, everything else starts at zero.
func NewBottleUsage(moderatorID id.ID, day types.Day, prev *BottleUsage) *BottleUsage {
	u := &BottleUsage{
		BaseEntity:  entity.NewBaseEntity(),
		ModeratorID: moderatorID,
		Day:         day,
	}
	if prev != nil {
		u.Remaining = prev.Remaining
		u.Empty = prev.Empty
	}
	return u
}

// TakeInput loads filled bottles and caps onto a moderator.
type TakeInput struct {
	Filled int64 `json:"filledBottles"`
	Caps   int64 `json:"caps"`
}

// ReturnInput hands bottles and caps back to the plant.
type ReturnInput = reconcile.Returned

// DoneInput toggles the advisory done flag.
type DoneInput struct {
	Day  types.Day `json:"day"`
	Done bool      `json:"done"`
}
