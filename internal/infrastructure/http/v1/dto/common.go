// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"strings"

	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain"
)

// --- List Query ---

// ListQuery holds the query parameters shared by list endpoints.
type ListQuery struct {
	Search      string `form:"search"`
	ModeratorID string `form:"moderatorId"`
	CustomerID  string `form:"customerId"`
	Area        string `form:"area"`
	From        string `form:"from"`
	To          string `form:"to"`
	Day         string `form:"day"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset      int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter parses the query into a domain filter. A day parameter sets
// both ends of the range.
func (q ListQuery) ToFilter() (domain.ListFilter, error) {
	f := domain.DefaultListFilter()
	f.Search = strings.TrimSpace(q.Search)
	f.Area = strings.TrimSpace(q.Area)
	if q.Limit > 0 {
		f.Limit = q.Limit
	}
	f.Offset = q.Offset

	var err error
	if f.ModeratorID, err = OptionalID("moderatorId", q.ModeratorID); err != nil {
		return f, err
	}
	if f.CustomerID, err = OptionalID("customerId", q.CustomerID); err != nil {
		return f, err
	}
	if f.From, err = OptionalDay("from", q.From); err != nil {
		return f, err
	}
	if f.To, err = OptionalDay("to", q.To); err != nil {
		return f, err
	}
	if q.Day != "" {
		d, err := OptionalDay("day", q.Day)
		if err != nil {
			return f, err
		}
		f.From, f.To = d, d
	}
	return f, nil
}

// OptionalID parses an optional UUID parameter.
func OptionalID(field, raw string) (*id.ID, error) {
	v, err := id.ParseOptional(raw)
	if err != nil {
		return nil, apperror.NewFieldValidation(field, raw)
	}
	return v, nil
}

// OptionalDay parses an optional YYYY-MM-DD parameter. Empty yields the zero day.
func OptionalDay(field, raw string) (types.Day, error) {
	if raw == "" {
		return types.Day{}, nil
	}
	d, err := types.ParseDay(raw)
	if err != nil {
		return types.Day{}, apperror.NewFieldValidation(field, raw)
	}
	return d, nil
}

// --- List Response ---

// ListResponse wraps list results with pagination.
type ListResponse struct {
	Items      any   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// FromListResult converts a domain page.
func FromListResult[T any](r domain.ListResult[T]) ListResponse {
	items := r.Items
	if items == nil {
		items = []T{}
	}
	return ListResponse{
		Items:      items,
		TotalCount: r.TotalCount,
		Limit:      r.Limit,
		Offset:     r.Offset,
	}
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Success Response ---

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Error Response ---

// ErrorResponse mirrors the body written by the error middleware.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Retryable bool           `json:"retryable"`
}
