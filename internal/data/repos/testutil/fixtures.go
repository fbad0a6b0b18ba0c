package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	types "github.com/yungbote/medstudy-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, id string) *types.User {
	tb.Helper()
	first, last := "Ada", "Lovelace"
	u := &types.User{ID: id, FirstName: &first, LastName: &last}
	require.NoError(tb, tx.WithContext(ctx).Create(u).Error, "seed user")
	return u
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Subject {
	tb.Helper()
	s := &types.Subject{ID: uuid.New(), Name: name}
	require.NoError(tb, tx.WithContext(ctx).Create(s).Error, "seed subject")
	return s
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID string, startedAt time.Time, minutes int) *types.StudySession {
	tb.Helper()
	s := &types.StudySession{
		ID:        uuid.New(),
		UserID:    userID,
		Duration:  minutes,
		StartedAt: startedAt,
		CreatedAt: startedAt,
	}
	require.NoError(tb, tx.WithContext(ctx).Create(s).Error, "seed session")
	return s
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func PtrString(v string) *string { return &v }

func PtrFloat(v float64) *float64 { return &v }

func PtrInt(v int) *int { return &v }
