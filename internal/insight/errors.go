package insight

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned before any remote call when there is
	// nothing to analyse.
	ErrEmptyInput = errors.New("no transactions to analyse")

	// ErrNotConfigured is returned when no insight provider is set up.
	ErrNotConfigured = errors.New("insight provider not configured")

	// ErrMalformedReply marks a reply that is not the expected JSON object.
	ErrMalformedReply = errors.New("malformed insight reply")
)

// RemoteCallError wraps any failure of the remote generation call,
// including a reply that cannot be understood. It is not retried.
type RemoteCallError struct {
	Provider string
	Err      error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("insight request to %s failed: %v", e.Provider, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }
