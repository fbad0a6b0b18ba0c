package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/medstudy-backend/internal/data/repos/testutil"
	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
)

func TestSubjectRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewSubjectRepo(db, testutil.Logger(t))

	for _, name := range []string{"Neurology", "Anatomy", "Cardiology"} {
		created, err := repo.Create(dbc, &types.Subject{Name: name, Icon: testutil.PtrString("fas fa-heart")})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
	}

	list, err := repo.List(dbc)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Anatomy", list[0].Name)
	assert.Equal(t, "Neurology", list[2].Name)
}

func TestProgressRepoUpsertIsIdempotentPerPair(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewProgressRepo(db, testutil.Logger(t))

	testutil.SeedUser(t, ctx, tx, "progress-user")
	cardio := testutil.SeedSubject(t, ctx, tx, "Cardiology")
	neuro := testutil.SeedSubject(t, ctx, tx, "Neurology")

	first, err := repo.Upsert(dbc, "progress-user", cardio.ID, types.ProgressPatch{
		ProgressPercentage: testutil.PtrFloat(25),
		TopicsMastered:     testutil.PtrInt(2),
		CurrentTopic:       testutil.PtrString("Arrhythmias"),
	})
	require.NoError(t, err)

	second, err := repo.Upsert(dbc, "progress-user", cardio.ID, types.ProgressPatch{
		ProgressPercentage: testutil.PtrFloat(60),
		TopicsMastered:     testutil.PtrInt(5),
		CurrentTopic:       testutil.PtrString("Heart failure"),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 60.0, second.ProgressPercentage)
	assert.Equal(t, 5, second.TopicsMastered)
	assert.Equal(t, "Heart failure", *second.CurrentTopic)

	_, err = repo.Upsert(dbc, "progress-user", neuro.ID, types.ProgressPatch{})
	require.NoError(t, err)

	rows, err := repo.ListByUser(dbc, "progress-user")
	require.NoError(t, err)
	assert.Len(t, rows, 2, "one row per (user, subject)")

	other, err := repo.ListByUser(dbc, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestProgressRepoUpsertKeepsOmittedFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewProgressRepo(db, testutil.Logger(t))

	testutil.SeedUser(t, ctx, tx, "partial-user")
	cardio := testutil.SeedSubject(t, ctx, tx, "Cardiology")
	studied := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)

	_, err := repo.Upsert(dbc, "partial-user", cardio.ID, types.ProgressPatch{
		ProgressPercentage: testutil.PtrFloat(40),
		TopicsMastered:     testutil.PtrInt(3),
		CurrentTopic:       testutil.PtrString("Murmurs"),
		LastStudiedAt:      testutil.PtrTime(studied),
	})
	require.NoError(t, err)

	got, err := repo.Upsert(dbc, "partial-user", cardio.ID, types.ProgressPatch{ProgressPercentage: testutil.PtrFloat(55)})
	require.NoError(t, err)
	assert.Equal(t, 55.0, got.ProgressPercentage)
	assert.Equal(t, 3, got.TopicsMastered)
	require.NotNil(t, got.CurrentTopic)
	assert.Equal(t, "Murmurs", *got.CurrentTopic)
	require.NotNil(t, got.LastStudiedAt)
	assert.True(t, studied.Equal(*got.LastStudiedAt))

	got, err = repo.Upsert(dbc, "partial-user", cardio.ID, types.ProgressPatch{TopicsMastered: testutil.PtrInt(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, got.TopicsMastered, "an explicit zero is still written")
	assert.Equal(t, 55.0, got.ProgressPercentage)
}

func TestStudySessionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewStudySessionRepo(db, testutil.Logger(t))
	testutil.SeedUser(t, ctx, tx, "session-user")
	testutil.SeedUser(t, ctx, tx, "other-user")

	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	since := now.AddDate(0, 0, -7)

	// 12 sessions, one per day going back; only days 0..7 fall in the window.
	for i := 0; i < 12; i++ {
		testutil.SeedSession(t, ctx, tx, "session-user", now.AddDate(0, 0, -i), 30+i)
	}
	testutil.SeedSession(t, ctx, tx, "other-user", now, 60)

	recent, err := repo.ListByUser(dbc, "session-user", 0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultSessionLimit)
	for i := 1; i < len(recent); i++ {
		assert.False(t, recent[i].CreatedAt.After(recent[i-1].CreatedAt), "created_at must be descending")
	}
	assert.Equal(t, 30, recent[0].Duration)

	three, err := repo.ListByUser(dbc, "session-user", 3)
	require.NoError(t, err)
	assert.Len(t, three, 3)

	week, err := repo.ListSince(dbc, "session-user", since)
	require.NoError(t, err)
	require.Len(t, week, 8, "boundary at exactly now-7d is included")
	for i, s := range week {
		assert.False(t, s.StartedAt.Before(since))
		assert.Equal(t, "session-user", s.UserID)
		if i > 0 {
			assert.False(t, s.StartedAt.After(week[i-1].StartedAt), "started_at must be descending")
		}
	}

	created, err := repo.Create(dbc, &types.StudySession{
		UserID:            "session-user",
		Duration:          45,
		QuestionsAnswered: 10,
		CorrectAnswers:    7,
		StartedAt:         now.In(time.FixedZone("EST", -5*3600)),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, time.UTC, created.StartedAt.Location())
}

func TestNoteRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewNoteRepo(db, testutil.Logger(t))
	testutil.SeedUser(t, ctx, tx, "note-user")
	subject := testutil.SeedSubject(t, ctx, tx, "Pharmacology")

	older, err := repo.Create(dbc, &types.Note{
		UserID:    "note-user",
		Title:     "Beta blockers",
		Content:   "Reduce heart rate",
		SubjectID: testutil.PtrUUID(subject.ID),
		UpdatedAt: time.Now().UTC().Add(-time.Hour),
	})
	require.NoError(t, err)
	assert.NotNil(t, older.Tags)

	newer, err := repo.Create(dbc, &types.Note{
		UserID:  "note-user",
		Title:   "ACE inhibitors",
		Content: "Cough side effect",
		Tags:    []string{"cardio", "renal"},
	})
	require.NoError(t, err)

	list, err := repo.ListByUser(dbc, "note-user")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "most recently updated first")
	assert.Equal(t, []string{"cardio", "renal"}, []string(list[0].Tags))

	title := "Beta blockers (revised)"
	tags := []string{"cardio"}
	updated, err := repo.Update(dbc, older.ID, types.NotePatch{Title: &title, Tags: &tags, ClearSubject: true})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "Reduce heart rate", updated.Content)
	assert.Nil(t, updated.SubjectID)
	assert.Equal(t, []string{"cardio"}, []string(updated.Tags))
	assert.True(t, updated.UpdatedAt.After(older.UpdatedAt))

	_, err = repo.Update(dbc, uuid.New(), types.NotePatch{Title: &title})
	assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))

	require.NoError(t, repo.Delete(dbc, older.ID))
	_, err = repo.Get(dbc, older.ID)
	assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(dbc, older.ID), pkgerrors.ErrNotFound))
}

func TestDeletingSubjectNullsSessionAndNoteReferences(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	testutil.SeedUser(t, ctx, tx, "fk-user")
	subject := testutil.SeedSubject(t, ctx, tx, "Physiology")

	session := &types.StudySession{UserID: "fk-user", SubjectID: testutil.PtrUUID(subject.ID), Duration: 20, StartedAt: time.Now().UTC()}
	require.NoError(t, tx.Create(session).Error)
	note := &types.Note{UserID: "fk-user", SubjectID: testutil.PtrUUID(subject.ID), Title: "t", Content: "c"}
	require.NoError(t, tx.Create(note).Error)
	require.NoError(t, tx.Create(&types.UserSubjectProgress{UserID: "fk-user", SubjectID: subject.ID}).Error)

	require.NoError(t, tx.Delete(&types.Subject{}, "id = ?", subject.ID).Error)

	var reloadedSession types.StudySession
	require.NoError(t, tx.First(&reloadedSession, "id = ?", session.ID).Error)
	assert.Nil(t, reloadedSession.SubjectID)

	var reloadedNote types.Note
	require.NoError(t, tx.First(&reloadedNote, "id = ?", note.ID).Error)
	assert.Nil(t, reloadedNote.SubjectID)

	var progress int64
	require.NoError(t, tx.Model(&types.UserSubjectProgress{}).Where("subject_id = ?", subject.ID).Count(&progress).Error)
	assert.EqualValues(t, 0, progress)
}
