package client

import (
	"errors"
	"fmt"
)

// TransientError is a network failure or a retryable HTTP status (429, 5xx).
// The retry wrapper keeps trying these until attempts run out.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient API failure (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient API failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is, or wraps, a TransientError
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}
