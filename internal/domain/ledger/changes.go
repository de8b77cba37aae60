package ledger

import (
	"aquaops/internal/core/id"
)

// Entity names used in change notifications, audit rows and outbox events.
const (
	EntityTotalBottles  = "total_bottles"
	EntityBottleUsage   = "bottle_usage"
	EntityCustomer      = "customer"
	EntityModerator     = "moderator"
	EntityDelivery      = "delivery"
	EntityMiscellaneous = "miscellaneous"
	EntityExpense       = "other_expense"
)

// Audit actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Change names one entity instance mutated by a committed operation.
type Change struct {
	Entity string `json:"entity"`
	ID     string `json:"id"`
}

// Event is a domain event published through the outbox in the same transaction.
type Event struct {
	Type          string
	AggregateType string
	AggregateID   id.ID
	Payload       any
}

// AuditRecord describes one mutation for the audit trail.
type AuditRecord struct {
	EntityType string
	EntityID   id.ID
	Action     string
	Changes    map[string]any
}

// ChangeSet collects the side effects of one operation while it runs.
type ChangeSet struct {
	changes []Change
	seen    map[Change]struct{}
	events  []Event
	audits  []AuditRecord
}

func newChangeSet() *ChangeSet {
	return &ChangeSet{seen: make(map[Change]struct{})}
}

// Touch marks an entity as changed. Repeated calls are collapsed.
func (cs *ChangeSet) Touch(entity, entityID string) {
	c := Change{Entity: entity, ID: entityID}
	if _, ok := cs.seen[c]; ok {
		return
	}
	cs.seen[c] = struct{}{}
	cs.changes = append(cs.changes, c)
}

// Emit queues an event for the outbox.
func (cs *ChangeSet) Emit(e Event) {
	cs.events = append(cs.events, e)
}

// Audit queues an audit record and touches the audited entity.
func (cs *ChangeSet) Audit(r AuditRecord) {
	cs.audits = append(cs.audits, r)
	cs.Touch(r.EntityType, r.EntityID.String())
}

// Changes returns the touched entities in first-touch order.
func (cs *ChangeSet) Changes() []Change {
	out := make([]Change, len(cs.changes))
	copy(out, cs.changes)
	return out
}

// Events returns the queued events.
func (cs *ChangeSet) Events() []Event {
	return cs.events
}
