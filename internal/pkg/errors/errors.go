package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an authenticated caller acting outside its scope.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAIUnavailable means the language model call failed or returned
	// output that could not be used.
	ErrAIUnavailable = errors.New("ai unavailable")
	// ErrRateLimited means the caller exceeded its request budget.
	ErrRateLimited = errors.New("rate limited")
)

type invalidArgumentError struct{ msg string }

func (e *invalidArgumentError) Error() string { return e.msg }
func (e *invalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// InvalidArgument returns an error matching ErrInvalidArgument whose message
// is exactly the formatted text, so it can be shown to API callers as is.
func InvalidArgument(format string, args ...any) error {
	return &invalidArgumentError{msg: fmt.Sprintf(format, args...)}
}
