package user

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

type UserStatsRepo interface {
	Get(dbc dbctx.Context, userID string) (*types.UserStats, error)
	Update(dbc dbctx.Context, userID string, patch types.UserStatsPatch) (*types.UserStats, error)
	// Initialize creates the zeroed stats row unless one exists and returns
	// whichever row is stored.
	Initialize(dbc dbctx.Context, userID string) (*types.UserStats, error)
}

type userStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return &userStatsRepo{db: db, log: baseLog.With("repo", "UserStatsRepo")}
}

func (r *userStatsRepo) Get(dbc dbctx.Context, userID string) (*types.UserStats, error) {
	var out types.UserStats
	err := dbc.DB(r.db).Where("user_id = ?", userID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("stats for user: %w", pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user stats: %w", err)
	}
	return &out, nil
}

func (r *userStatsRepo) Update(dbc dbctx.Context, userID string, patch types.UserStatsPatch) (*types.UserStats, error) {
	res := dbc.DB(r.db).
		Model(&types.UserStats{}).
		Where("user_id = ?", userID).
		Updates(patch.Updates(time.Now().UTC()))
	if res.Error != nil {
		return nil, fmt.Errorf("update user stats: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("stats for user: %w", pkgerrors.ErrNotFound)
	}
	return r.Get(dbc, userID)
}

func (r *userStatsRepo) Initialize(dbc dbctx.Context, userID string) (*types.UserStats, error) {
	row := &types.UserStats{UserID: userID}
	err := dbc.DB(r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("initialize user stats: %w", err)
	}
	return r.Get(dbc, userID)
}
