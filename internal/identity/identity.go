// Package identity provides session and message identifier primitives.
package identity

import (
	"regexp"

	"github.com/google/uuid"
)

// sessionIDPattern matches identifiers that are safe to embed in a
// request path. Server-issued ids and locally generated UUIDs both fit.
var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// NewID returns a random UUID v4 in canonical 36-character textual
// form. Used for session and message correlation, not for anything
// security-sensitive.
func NewID() string {
	return uuid.NewString()
}

// IsValidSessionID reports whether id may be used in an API path.
func IsValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}
