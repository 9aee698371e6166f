// Package uuid generates and validates the time-ordered identifiers used as
// primary keys across Renovo.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. Version 7 embeds a millisecond timestamp in the
// high bits so rows inserted later sort after earlier ones.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates s and returns its canonical lower-case form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid reports whether s is a valid UUID.
func IsValid(s string) bool {
	return googleuuid.Validate(s) == nil
}
