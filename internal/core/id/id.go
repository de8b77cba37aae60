// Package id generates and parses the identifiers of ledger records.
package id

import (
	"strings"

	"github.com/google/uuid"
)

// ID identifies every stored record. New values are UUIDv7 and sort by
// creation time.
type ID = uuid.UUID

// New returns a fresh time-ordered ID.
func New() ID {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return v
}

// Parse reads an ID, ignoring surrounding whitespace.
func Parse(s string) (ID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// ParseOptional reads an ID that may be absent. An empty string yields nil.
func ParseOptional(s string) (*ID, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := Parse(s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// MustParse panics on malformed input. Tests only.
func MustParse(s string) ID {
	return uuid.MustParse(s)
}

// Nil returns the zero ID.
func Nil() ID {
	return uuid.Nil
}

// IsNil reports whether v is the zero ID.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
