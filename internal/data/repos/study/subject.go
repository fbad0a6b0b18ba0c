package study

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

type SubjectRepo interface {
	List(dbc dbctx.Context) ([]*types.Subject, error)
	Create(dbc dbctx.Context, s *types.Subject) (*types.Subject, error)
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{db: db, log: baseLog.With("repo", "SubjectRepo")}
}

func (r *subjectRepo) List(dbc dbctx.Context) ([]*types.Subject, error) {
	out := []*types.Subject{}
	if err := dbc.DB(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return out, nil
}

func (r *subjectRepo) Create(dbc dbctx.Context, s *types.Subject) (*types.Subject, error) {
	if err := dbc.DB(r.db).Create(s).Error; err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	return s, nil
}
