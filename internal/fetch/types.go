package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Status tags the success arm of a fetch.
type Status int

const (
	// StatusData: the hour exists and its compressed bytes were retrieved.
	StatusData Status = iota
	// StatusNoData: the provider has no recorded activity for the hour
	// (a 404 or an empty body). Normal and never retried.
	StatusNoData
)

func (s Status) String() string {
	switch s {
	case StatusData:
		return "data"
	case StatusNoData:
		return "no_data"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the classified result of a successful fetch.
type Outcome struct {
	Status Status
	Bytes  []byte // Compressed segment payload, set only for StatusData
}

// Error is a failed segment fetch. StatusCode is zero for connection-level
// failures (no HTTP response was received).
type Error struct {
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure is worth retrying: 5xx, 429, and
// connection-level failures (which include per-attempt timeouts).
func (e *Error) Transient() bool {
	if e.StatusCode != 0 {
		return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// IsTransient reports whether err is a retryable fetch failure.
func IsTransient(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Transient()
}
