package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/medstudy-backend/internal/data/repos"
	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

type UserService interface {
	// SyncFromToken upserts the caller from its token claims and makes sure a
	// stats row exists.
	SyncFromToken(dbc dbctx.Context) (*types.User, error)
	GetMe(dbc dbctx.Context) (*types.User, error)
	DeleteMe(dbc dbctx.Context) error
}

type userService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	statsRepo repos.UserStatsRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, statsRepo repos.UserStatsRepo) UserService {
	return &userService{
		db:        db,
		log:       log.With("service", "UserService"),
		userRepo:  userRepo,
		statsRepo: statsRepo,
	}
}

// callerID returns the authenticated user id or ErrUnauthorized.
func callerID(dbc dbctx.Context) (string, error) {
	id := strings.TrimSpace(ctxutil.UserID(dbc.Ctx))
	if id == "" {
		return "", fmt.Errorf("request data not set in context: %w", pkgerrors.ErrUnauthorized)
	}
	return id, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (us *userService) SyncFromToken(dbc dbctx.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || strings.TrimSpace(rd.UserID) == "" {
		us.log.Warn("Request data not set in context")
		return nil, fmt.Errorf("request data not set in context: %w", pkgerrors.ErrUnauthorized)
	}
	in := &types.User{
		ID:              rd.UserID,
		Email:           optionalString(rd.Email),
		FirstName:       optionalString(rd.FirstName),
		LastName:        optionalString(rd.LastName),
		ProfileImageURL: optionalString(rd.ProfileImageURL),
	}

	var out *types.User
	err := dbc.DB(us.db).Transaction(func(tx *gorm.DB) error {
		inner := dbc.WithTx(tx)
		u, err := us.userRepo.Upsert(inner, in)
		if err != nil {
			return err
		}
		if _, err := us.statsRepo.Initialize(inner, u.ID); err != nil {
			return err
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	id, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	return us.userRepo.Get(dbc, id)
}

func (us *userService) DeleteMe(dbc dbctx.Context) error {
	id, err := callerID(dbc)
	if err != nil {
		return err
	}
	if err := us.userRepo.Delete(dbc, id); err != nil {
		return err
	}
	us.log.Info("User deleted", "user_id", id)
	return nil
}
