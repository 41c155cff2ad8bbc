package gsheets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

var (
	// ErrTableNotFound is returned when the spreadsheet has no tab with the requested name.
	ErrTableNotFound = errors.New("gsheets: table not found")

	// ErrRetriesExhausted wraps the last transient error once the retry budget is spent.
	ErrRetriesExhausted = errors.New("gsheets: retries exhausted")

	errInvalidRange = errors.New("gsheets: invalid range")
)

// Error describes a failed backend primitive.
//
// Status holds the HTTP status reported by the remote API, or 0 when the
// failure happened before a response was received.
type Error struct {
	Op     string
	Table  string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gsheets %s %q: status %d: %v", e.Op, e.Table, e.Status, e.Err)
	}
	return fmt.Sprintf("gsheets %s %q: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying the same call may succeed.
func (e *Error) Transient() bool {
	return e.Status == http.StatusTooManyRequests || (e.Status >= 500 && e.Status < 600)
}

// IsTransient reports whether err is a rate limit or server side failure.
// Authentication failures are never transient: a broken credential does not
// heal by waiting.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var gerr *Error
	if errors.As(err, &gerr) && gerr.Status != 0 {
		return gerr.Transient()
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// wrapError converts whatever the Sheets client returned into an *Error.
func wrapError(op, table string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &Error{Op: op, Table: table, Status: apiErr.Code, Err: err}
	}
	return &Error{Op: op, Table: table, Err: err}
}
