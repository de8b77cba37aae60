package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"aquaops/internal/core/apperror"
)

const dayLayout = "2006-01-02"

// Day is a business day (civil date) in the operator's timezone.
// The zero value means "not set".
type Day struct {
	t time.Time
}

// DayOf returns the business day containing t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// NewDay builds a Day from its parts.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses YYYY-MM-DD.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return Day{}, apperror.NewValidation("day must be YYYY-MM-DD").
			WithDetail("field", "day").
			WithDetail("value", s)
	}
	return Day{t: t}, nil
}

// IsZero reports whether the day is unset.
func (d Day) IsZero() bool { return d.t.IsZero() }

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dayLayout)
}

// Time returns midnight UTC of the day.
func (d Day) Time() time.Time { return d.t }

// Year of the day.
func (d Day) Year() int { return d.t.Year() }

// AddDays shifts the day.
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

// Before reports whether d is strictly earlier than o.
func (d Day) Before(o Day) bool { return d.t.Before(o.t) }

// After reports whether d is strictly later than o.
func (d Day) After(o Day) bool { return d.t.After(o.t) }

// Equal reports whether both values name the same day.
func (d Day) Equal(o Day) bool { return d.t.Equal(o.t) }

// MarshalJSON encodes the day as "YYYY-MM-DD".
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD" or an empty string.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("day: %w", err)
	}
	if s == "" {
		*d = Day{}
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for DATE columns.
func (d Day) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner for DATE columns.
func (d *Day) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Day{}
	case time.Time:
		*d = NewDay(v.Date())
	case string:
		parsed, err := time.Parse(dayLayout, v)
		if err != nil {
			return fmt.Errorf("scan day %q: %w", v, err)
		}
		*d = Day{t: parsed}
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("scan day: unsupported type %T", src)
	}
	return nil
}

// Clock yields business days in a fixed timezone.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock creates a clock for loc. A nil now uses time.Now.
func NewClock(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// Now returns the current instant.
func (c *Clock) Now() time.Time { return c.now().UTC() }

// Today returns the current business day.
func (c *Clock) Today() Day { return DayOf(c.now(), c.loc) }

// Location returns the business timezone.
func (c *Clock) Location() *time.Location { return c.loc }

// FixedClock returns a clock frozen at t, for tests and tools.
func FixedClock(t time.Time, loc *time.Location) *Clock {
	return NewClock(loc, func() time.Time { return t })
}
