package gsheets

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", wrapError("read_rows", "T", &googleapi.Error{Code: 429}), true},
		{"server error", wrapError("read_rows", "T", &googleapi.Error{Code: 500}), true},
		{"bad gateway wrapped", fmt.Errorf("outer: %w", wrapError("read_rows", "T", &googleapi.Error{Code: 502})), true},
		{"bad request", wrapError("read_rows", "T", &googleapi.Error{Code: 400}), false},
		{"forbidden", wrapError("read_rows", "T", &googleapi.Error{Code: 403}), false},
		{"missing table", &Error{Op: "resolve", Table: "T", Err: ErrTableNotFound}, false},
		{"token refresh", wrapError("read_rows", "T", &oauth2.RetrieveError{ErrorCode: "invalid_grant"}), false},
		{"cancelled", wrapError("read_rows", "T", context.Canceled), false},
		{"network timeout", wrapError("read_rows", "T", timeoutErr{}), true},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "A", ColumnName(0))
	assert.Equal(t, "N", ColumnName(13))
	assert.Equal(t, "Z", ColumnName(25))
	assert.Equal(t, "AA", ColumnName(26))
	assert.Equal(t, "AZ", ColumnName(51))
	assert.Equal(t, "BA", ColumnName(52))
}
