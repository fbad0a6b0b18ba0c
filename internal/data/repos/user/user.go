package user

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

type UserRepo interface {
	Get(dbc dbctx.Context, id string) (*types.User, error)
	Upsert(dbc dbctx.Context, u *types.User) (*types.User, error)
	Delete(dbc dbctx.Context, id string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Get(dbc dbctx.Context, id string) (*types.User, error) {
	var out types.User
	err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %q: %w", id, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &out, nil
}

// Upsert inserts u or, when the id exists, overwrites the supplied (non-nil)
// profile fields and refreshes updated_at. The stored row is returned.
func (r *userRepo) Upsert(dbc dbctx.Context, u *types.User) (*types.User, error) {
	if u == nil || strings.TrimSpace(u.ID) == "" {
		return nil, fmt.Errorf("upsert user: %w: id is required", pkgerrors.ErrInvalidArgument)
	}
	cols := make([]string, 0, 5)
	if u.Email != nil {
		cols = append(cols, "email")
	}
	if u.FirstName != nil {
		cols = append(cols, "first_name")
	}
	if u.LastName != nil {
		cols = append(cols, "last_name")
	}
	if u.ProfileImageURL != nil {
		cols = append(cols, "profile_image_url")
	}
	cols = append(cols, "updated_at")

	err := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(u).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return r.Get(dbc, u.ID)
}

func (r *userRepo) Delete(dbc dbctx.Context, id string) error {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.User{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %q: %w", id, pkgerrors.ErrNotFound)
	}
	return nil
}
