package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", Validation("Question is required"), http.StatusBadRequest, "validation_error"},
		{"wrapped not found", fmt.Errorf("get note: %w", pkgerrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"ai", fmt.Errorf("ask: %w", pkgerrors.ErrAIUnavailable), http.StatusBadGateway, "ai_unavailable"},
		{"rate", pkgerrors.ErrRateLimited, http.StatusTooManyRequests, "rate_limited"},
		{"unauthorized", pkgerrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"store", errors.New("connection refused"), http.StatusInternalServerError, "internal_error"},
		{"explicit", New(http.StatusConflict, "", errors.New("dup")), http.StatusConflict, "Conflict"},
		{"translated duplicate", fmt.Errorf("upsert user: %w", gorm.ErrDuplicatedKey), http.StatusConflict, CodeConflict},
		{"translated foreign key", fmt.Errorf("upsert progress: %w", gorm.ErrForeignKeyViolated), http.StatusBadRequest, CodeInvalidReference},
		{"pg unique", fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"}), http.StatusConflict, CodeConflict},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, http.StatusBadRequest, CodeInvalidReference},
		{"pg other", &pgconn.PgError{Code: "40001"}, http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := Classify(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestPublicMessageHidesDriverText(t *testing.T) {
	raw := &pgconn.PgError{Code: "23505", Message: `duplicate key value violates unique constraint "idx_users_email"`}
	_, code := Classify(raw)

	msg := PublicMessage(code, raw)
	assert.NotContains(t, msg, "idx_users_email")
	assert.Equal(t, "a record with the same unique values already exists", msg)

	assert.Equal(t, "Question is required", PublicMessage("validation_error", Validation("Question is required")))
}
