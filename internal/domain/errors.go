package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSendInFlight is returned when a send is attempted while a
	// previous send has not resolved yet.
	ErrSendInFlight = errors.New("a send is already in flight")

	// ErrInvalidSessionID is returned for session identifiers that are
	// not safe to embed in a request path.
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrInvalidRating is returned for ratings outside the 1-5 range.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// RemoteError is a failure reported by the chatbot API: either a
// non-2xx status or a success=false body on HTTP 200. Message carries
// the server-supplied text, which may be empty.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("chatbot api request failed (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("chatbot api: %s (status %d)", e.Message, e.StatusCode)
}
