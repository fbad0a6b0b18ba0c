package study

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

type ProgressRepo interface {
	ListByUser(dbc dbctx.Context, userID string) ([]*types.UserSubjectProgress, error)
	// Upsert keys on (user_id, subject_id): a second call for the same pair
	// overwrites only the fields set in patch instead of inserting.
	Upsert(dbc dbctx.Context, userID string, subjectID uuid.UUID, patch types.ProgressPatch) (*types.UserSubjectProgress, error)
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

func (r *progressRepo) ListByUser(dbc dbctx.Context, userID string) ([]*types.UserSubjectProgress, error) {
	out := []*types.UserSubjectProgress{}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return out, nil
}

func (r *progressRepo) Upsert(dbc dbctx.Context, userID string, subjectID uuid.UUID, patch types.ProgressPatch) (*types.UserSubjectProgress, error) {
	row := &types.UserSubjectProgress{UserID: userID, SubjectID: subjectID}
	patch.Apply(row)
	cols := append(patch.Columns(), "updated_at")

	err := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "subject_id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	var out types.UserSubjectProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		First(&out).Error; err != nil {
		return nil, fmt.Errorf("reload progress: %w", err)
	}
	return &out, nil
}
