// Package audit exposes the audit trail written by ledger operations.
package audit

import (
	"context"
	"time"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
	"aquaops/internal/domain/ledger"
)

// Entry is one stored audit record.
type Entry struct {
	ID         id.ID          `json:"id"`
	EntityType string         `json:"entityType"`
	EntityID   id.ID          `json:"entityId"`
	Action     string         `json:"action"`
	ActorID    string         `json:"actorId,omitempty"`
	RequestID  string         `json:"requestId,omitempty"`
	Changes    map[string]any `json:"changes,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

// Reader loads the history of one entity, newest first.
type Reader interface {
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

var knownEntities = map[string]bool{
	ledger.EntityTotalBottles:  true,
	ledger.EntityBottleUsage:   true,
	ledger.EntityCustomer:      true,
	ledger.EntityModerator:     true,
	ledger.EntityDelivery:      true,
	ledger.EntityMiscellaneous: true,
	ledger.EntityExpense:       true,
}

const defaultHistoryLimit = 100

// Service reads the audit trail.
type Service struct {
	reader Reader
}

// NewService creates the audit service.
func NewService(reader Reader) *Service {
	return &Service{reader: reader}
}

// History returns up to limit entries for an entity, newest first.
func (s *Service) History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error) {
	if !knownEntities[entityType] {
		return nil, apperror.NewValidation("unknown entity type").WithDetail("entity", entityType)
	}
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	return s.reader.History(ctx, entityType, entityID, limit)
}
