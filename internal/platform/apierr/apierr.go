package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// Validation builds a 400 with a human readable message.
func Validation(msg string) *Error {
	return New(http.StatusBadRequest, "validation_error", errors.New(msg))
}

// Classify maps an error onto an HTTP status and machine code. Errors already
// carrying an *Error keep their own mapping.
func Classify(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		code := ae.Code
		if code == "" {
			code = http.StatusText(ae.Status)
		}
		return ae.Status, code
	}
	if code, ok := constraintCode(err); ok {
		if code == CodeConflict {
			return http.StatusConflict, code
		}
		return http.StatusBadRequest, code
	}
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, pkgerrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, pkgerrors.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, pkgerrors.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, pkgerrors.ErrAIUnavailable):
		return http.StatusBadGateway, "ai_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

const (
	CodeConflict         = "conflict"
	CodeInvalidReference = "invalid_reference"
)

// constraintCode recognises unique and foreign key violations, either
// translated by gorm or raw from Postgres.
func constraintCode(err error) (string, bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return CodeConflict, true
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return CodeInvalidReference, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return CodeConflict, true
		case "23503": // foreign_key_violation
			return CodeInvalidReference, true
		}
	}
	return "", false
}

// PublicMessage is the text shown to callers for a non-5xx error. Constraint
// failures get a fixed message instead of driver text.
func PublicMessage(code string, err error) string {
	switch code {
	case CodeConflict:
		return "a record with the same unique values already exists"
	case CodeInvalidReference:
		return "a referenced record does not exist"
	}
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
