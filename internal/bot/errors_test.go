package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"holidaze/internal/api"
	"holidaze/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"guests sentinel verbatim", service.ErrGuestsRequired, "Please fill out number of guests"},
		{"date range sentinel verbatim", service.ErrInvalidDateRange, "Please select a valid date range"},
		{"conflict distinct from generic failure", service.ErrDatesUnavailable, "These dates are no longer available"},
		{"login required", service.ErrLoginRequired, "Please log in to book a venue"},
		{"session expired", service.ErrSessionExpired, "Your session has expired. Please /login again"},
		{"wrapped sentinel still matches", fmt.Errorf("book: %w", service.ErrDatesUnavailable), "These dates are no longer available"},
		{"field errors joined", service.FieldErrors{"name": "Please enter a venue name."}, "Please enter a venue name."},
		{"timeout", context.DeadlineExceeded, "The request timed out. Please try again."},
		{"api 404", &api.Error{StatusCode: 404, Messages: []string{"No venue with such ID"}}, "Not found."},
		{"api messages verbatim", &api.Error{StatusCode: 401, Messages: []string{"Invalid email or password"}}, "Invalid email or password"},
		{"unknown error generic", errors.New("dial tcp: connection refused"), "Something went wrong. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorText(tt.err))
		})
	}
}
