package httpclient

import (
	"errors"
	"fmt"
)

// NetworkError is returned for every transport level failure: malformed URLs,
// DNS and connection errors, read errors and context cancellation.
// HTTP error statuses are not NetworkErrors.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err wraps a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
