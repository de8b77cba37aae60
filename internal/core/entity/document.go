package entity

import (
	"aquaops/internal/core/apperror"
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
)

// Document is the base type for day-bound transaction records
// (deliveries, miscellaneous sales, expenses).
type Document struct {
	BaseEntity

	// Number is the receipt number (auto-generated, unique within prefix+year)
	Number string `db:"number" json:"number,omitempty"`

	// Day is the business day the record belongs to
	Day types.Day `db:"day" json:"day"`

	// ModeratorID is the moderator whose round the record belongs to
	ModeratorID id.ID `db:"moderator_id" json:"moderatorId"`

	// CreatedBy is the actor that recorded it
	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a Document for moderatorID on day.
func NewDocument(moderatorID id.ID, day types.Day, createdBy string) Document {
	return Document{
		BaseEntity:  NewBaseEntity(),
		Day:         day,
		ModeratorID: moderatorID,
		CreatedBy:   createdBy,
	}
}

// CanModify fails once the record's business day has passed.
func (d *Document) CanModify(entity string, today types.Day) error {
	if !d.Day.Equal(today) {
		return apperror.NewRecordLocked(entity, d.Day.String()).
			WithDetail("id", d.ID.String())
	}
	return nil
}

// IsBackdated reports whether the record belongs to an earlier day than today.
func (d *Document) IsBackdated(today types.Day) bool {
	return d.Day.Before(today)
}

