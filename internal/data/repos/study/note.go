package study

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

// NoteRepo does not check ownership; callers scope by user first.
type NoteRepo interface {
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Note, error)
	ListByUser(dbc dbctx.Context, userID string) ([]*types.Note, error)
	Create(dbc dbctx.Context, n *types.Note) (*types.Note, error)
	Update(dbc dbctx.Context, id uuid.UUID, patch types.NotePatch) (*types.Note, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

func (r *noteRepo) Get(dbc dbctx.Context, id uuid.UUID) (*types.Note, error) {
	var out types.Note
	err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("note %s: %w", id, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &out, nil
}

func (r *noteRepo) ListByUser(dbc dbctx.Context, userID string) ([]*types.Note, error) {
	out := []*types.Note{}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return out, nil
}

func (r *noteRepo) Create(dbc dbctx.Context, n *types.Note) (*types.Note, error) {
	if err := dbc.DB(r.db).Create(n).Error; err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (r *noteRepo) Update(dbc dbctx.Context, id uuid.UUID, patch types.NotePatch) (*types.Note, error) {
	res := dbc.DB(r.db).
		Model(&types.Note{}).
		Where("id = ?", id).
		Updates(patch.Updates(time.Now().UTC()))
	if res.Error != nil {
		return nil, fmt.Errorf("update note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("note %s: %w", id, pkgerrors.ErrNotFound)
	}
	return r.Get(dbc, id)
}

func (r *noteRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Note{})
	if res.Error != nil {
		return fmt.Errorf("delete note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("note %s: %w", id, pkgerrors.ErrNotFound)
	}
	return nil
}
