// Package moderator provides the Moderator catalog: field agents who take
// filled bottles out, deliver them and bring empties back.
package moderator

import (
	"context"
	"strings"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/entity"
)

// Moderator is a delivery field agent.
type Moderator struct {
	entity.BaseEntity

	Name  string   `db:"name" json:"name"`
	Phone string   `db:"phone" json:"phone"`
	Areas []string `db:"areas" json:"areas"`

	// Active moderators may record usage and deliveries.
	Active bool `db:"active" json:"active"`
}

// NewModerator creates an active moderator.
func NewModerator(name, phone string, areas []string) *Moderator {
	return &Moderator{
		BaseEntity: entity.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Phone:      strings.TrimSpace(phone),
		Areas:      normalizeAreas(areas),
		Active:     true,
	}
}

// Validate implements entity.Validatable.
func (m *Moderator) Validate(_ context.Context) error {
	if m.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if m.Phone == "" {
		return apperror.NewValidation("phone is required").WithDetail("field", "phone")
	}
	return nil
}

// Covers reports whether the moderator serves area.
func (m *Moderator) Covers(area string) bool {
	for _, a := range m.Areas {
		if strings.EqualFold(a, area) {
			return true
		}
	}
	return false
}

func normalizeAreas(areas []string) []string {
	out := make([]string, 0, len(areas))
	seen := make(map[string]struct{}, len(areas))
	for _, a := range areas {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// CreateInput holds the fields of a new moderator.
type CreateInput struct {
	Name  string   `json:"name"`
	Phone string   `json:"phone"`
	Areas []string `json:"areas"`
}

// UpdateInput replaces the editable fields. Version must match.
type UpdateInput struct {
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Areas   []string `json:"areas"`
	Active  bool     `json:"active"`
	Version int      `json:"version"`
}
