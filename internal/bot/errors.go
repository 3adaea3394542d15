package bot

import (
	"context"
	"errors"

	"holidaze/internal/api"
	"holidaze/internal/service"
)

// errorText turns a flow error into the message shown to the user.
// Validation sentinels and field errors already carry their final copy;
// API errors surface the server's joined messages verbatim.
func errorText(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrGuestsRequired),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrTooManyGuests),
		errors.Is(err, service.ErrDatesBlocked),
		errors.Is(err, service.ErrLoginRequired),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, service.ErrDatesUnavailable),
		errors.Is(err, service.ErrManagerRequired):
		return err.Error()
	}

	var fieldErrs service.FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs.Error()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "The request timed out. Please try again."
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if api.IsNotFound(err) {
			return "Not found."
		}
		return apiErr.Error()
	}

	return "Something went wrong. Please try again later."
}
