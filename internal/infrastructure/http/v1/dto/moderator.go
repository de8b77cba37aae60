package dto

import (
	"aquaops/internal/domain/catalogs/moderator"
)

// CreateModeratorRequest is the request body for creating a moderator.
type CreateModeratorRequest struct {
	Name  string   `json:"name" binding:"required"`
	Phone string   `json:"phone" binding:"required"`
	Areas []string `json:"areas"`
}

// ToInput converts the request.
func (r CreateModeratorRequest) ToInput() moderator.CreateInput {
	return moderator.CreateInput{Name: r.Name, Phone: r.Phone, Areas: r.Areas}
}

// UpdateModeratorRequest is the request body for updating a moderator.
type UpdateModeratorRequest struct {
	Name    string   `json:"name" binding:"required"`
	Phone   string   `json:"phone" binding:"required"`
	Areas   []string `json:"areas"`
	Active  bool     `json:"active"`
	Version int      `json:"version" binding:"required,min=1"`
}

// ToInput converts the request.
func (r UpdateModeratorRequest) ToInput() moderator.UpdateInput {
	return moderator.UpdateInput{
		Name:    r.Name,
		Phone:   r.Phone,
		Areas:   r.Areas,
		Active:  r.Active,
		Version: r.Version,
	}
}
