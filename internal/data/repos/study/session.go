package study

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

const DefaultSessionLimit = 10

type StudySessionRepo interface {
	Create(dbc dbctx.Context, s *types.StudySession) (*types.StudySession, error)
	// ListByUser returns the newest sessions by created_at. limit <= 0 uses
	// DefaultSessionLimit.
	ListByUser(dbc dbctx.Context, userID string, limit int) ([]*types.StudySession, error)
	// ListSince returns sessions with started_at >= since, newest first.
	ListSince(dbc dbctx.Context, userID string, since time.Time) ([]*types.StudySession, error)
}

type studySessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudySessionRepo(db *gorm.DB, baseLog *logger.Logger) StudySessionRepo {
	return &studySessionRepo{db: db, log: baseLog.With("repo", "StudySessionRepo")}
}

func (r *studySessionRepo) Create(dbc dbctx.Context, s *types.StudySession) (*types.StudySession, error) {
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		return nil, fmt.Errorf("create study session: %w", err)
	}
	return s, nil
}

func (r *studySessionRepo) ListByUser(dbc dbctx.Context, userID string, limit int) ([]*types.StudySession, error) {
	if limit <= 0 {
		limit = DefaultSessionLimit
	}
	out := []*types.StudySession{}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list study sessions: %w", err)
	}
	return out, nil
}

func (r *studySessionRepo) ListSince(dbc dbctx.Context, userID string, since time.Time) ([]*types.StudySession, error) {
	out := []*types.StudySession{}
	if err := dbc.DB(r.db).
		Where("user_id = ? AND started_at >= ?", userID, since.UTC()).
		Order("started_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list study sessions since: %w", err)
	}
	return out, nil
}
