package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownFeed indicates a feed name other than "top" or "new".
var ErrUnknownFeed = errors.New("unknown feed")

// APIError reports a failed request against the remote API: either a
// non-success HTTP status or a transport/decoding failure (Err).
type APIError struct {
	Endpoint string
	Status   int // 0 when no response was received
	Err      error
}

func (e *APIError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("hacker news request failed (%d): %s", e.Status, e.Endpoint)
	case e.Err != nil:
		return fmt.Sprintf("hacker news request failed: %s: %v", e.Endpoint, e.Err)
	default:
		return "hacker news request failed: " + e.Endpoint
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// AbortedError reports a request cancelled through its context.
type AbortedError struct {
	Endpoint string
	Err      error
}

func (e *AbortedError) Error() string {
	return "hacker news request aborted: " + e.Endpoint
}

func (e *AbortedError) Unwrap() error { return e.Err }

// IsAborted reports whether err (or anything it wraps) is an AbortedError.
func IsAborted(err error) bool {
	var aborted *AbortedError
	return errors.As(err, &aborted)
}
