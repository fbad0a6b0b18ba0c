package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/medstudy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
)

func TestUserRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))

	_, err := repo.Get(dbc, "user-upsert")
	require.True(t, errors.Is(err, pkgerrors.ErrNotFound), "got %v", err)

	created, err := repo.Upsert(dbc, &types.User{
		ID:        "user-upsert",
		Email:     testutil.PtrString("ada@example.com"),
		FirstName: testutil.PtrString("Ada"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", *created.FirstName)
	assert.False(t, created.CreatedAt.IsZero())

	updated, err := repo.Upsert(dbc, &types.User{
		ID:        "user-upsert",
		FirstName: testutil.PtrString("Augusta"),
		LastName:  testutil.PtrString("King"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Augusta", *updated.FirstName)
	assert.Equal(t, "King", *updated.LastName)
	require.NotNil(t, updated.Email, "omitted fields keep their stored value")
	assert.Equal(t, "ada@example.com", *updated.Email)
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)

	var count int64
	require.NoError(t, tx.Model(&types.User{}).Where("id = ?", "user-upsert").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = repo.Upsert(dbc, &types.User{})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument))
}

func TestUserRepoDeleteCascades(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserRepo(db, testutil.Logger(t))
	stats := NewUserStatsRepo(db, testutil.Logger(t))

	subject := testutil.SeedSubject(t, ctx, tx, "Cardiology")
	for _, id := range []string{"doomed", "survivor"} {
		testutil.SeedUser(t, ctx, tx, id)
		_, err := stats.Initialize(dbc, id)
		require.NoError(t, err)
		testutil.SeedSession(t, ctx, tx, id, time.Now().UTC(), 30)
		require.NoError(t, tx.Create(&types.UserSubjectProgress{UserID: id, SubjectID: subject.ID, ProgressPercentage: 10}).Error)
		require.NoError(t, tx.Create(&types.Note{UserID: id, Title: "t", Content: "c", SubjectID: testutil.PtrUUID(subject.ID)}).Error)
		require.NoError(t, tx.Create(&types.ChatMessage{UserID: id, Message: "q", Response: "a"}).Error)
	}

	require.NoError(t, repo.Delete(dbc, "doomed"))

	for _, model := range []any{&types.UserStats{}, &types.StudySession{}, &types.UserSubjectProgress{}, &types.Note{}, &types.ChatMessage{}} {
		var doomed, survivor int64
		require.NoError(t, tx.Model(model).Where("user_id = ?", "doomed").Count(&doomed).Error)
		require.NoError(t, tx.Model(model).Where("user_id = ?", "survivor").Count(&survivor).Error)
		assert.EqualValues(t, 0, doomed, "%T rows of deleted user", model)
		assert.EqualValues(t, 1, survivor, "%T rows of other user", model)
	}

	var subjects int64
	require.NoError(t, tx.Model(&types.Subject{}).Where("id = ?", subject.ID).Count(&subjects).Error)
	assert.EqualValues(t, 1, subjects)

	err := repo.Delete(dbc, "doomed")
	assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
}

func TestUserStatsRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserStatsRepo(db, testutil.Logger(t))
	testutil.SeedUser(t, ctx, tx, "stats-user")

	_, err := repo.Get(dbc, "stats-user")
	require.True(t, errors.Is(err, pkgerrors.ErrNotFound))

	first, err := repo.Initialize(dbc, "stats-user")
	require.NoError(t, err)
	assert.Equal(t, 0, first.StudyStreak)
	assert.Equal(t, 0.0, first.TotalHoursStudied)

	streak, hours := 4, 12.5
	updated, err := repo.Update(dbc, "stats-user", types.UserStatsPatch{StudyStreak: &streak, TotalHoursStudied: &hours})
	require.NoError(t, err)
	assert.Equal(t, 4, updated.StudyStreak)
	assert.Equal(t, 12.5, updated.TotalHoursStudied)
	assert.Equal(t, 0, updated.TotalTopicsMastered)

	again, err := repo.Initialize(dbc, "stats-user")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "second initialize returns the existing row")
	assert.Equal(t, 4, again.StudyStreak, "second initialize does not reset values")

	_, err = repo.Update(dbc, "nobody", types.UserStatsPatch{StudyStreak: &streak})
	assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
}
