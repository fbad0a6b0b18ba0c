package services

import (
	"time"

	"github.com/yungbote/medstudy-backend/internal/data/repos"
	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

// StatsPatchInput is the wire form of a partial stats update.
type StatsPatchInput struct {
	StudyStreak         *int       `json:"studyStreak" binding:"omitempty,min=0"`
	TotalHoursStudied   *float64   `json:"totalHoursStudied" binding:"omitempty,min=0"`
	TotalTopicsMastered *int       `json:"totalTopicsMastered" binding:"omitempty,min=0"`
	OverallProgress     *float64   `json:"overallProgress" binding:"omitempty,min=0,max=100"`
	LastActiveDate      *time.Time `json:"lastActiveDate"`
}

func (in StatsPatchInput) patch() types.UserStatsPatch {
	return types.UserStatsPatch{
		StudyStreak:         in.StudyStreak,
		TotalHoursStudied:   in.TotalHoursStudied,
		TotalTopicsMastered: in.TotalTopicsMastered,
		OverallProgress:     in.OverallProgress,
		LastActiveDate:      in.LastActiveDate,
	}
}

type StatsService interface {
	Get(dbc dbctx.Context) (*types.UserStats, error)
	Update(dbc dbctx.Context, in StatsPatchInput) (*types.UserStats, error)
}

type statsService struct {
	log       *logger.Logger
	statsRepo repos.UserStatsRepo
}

func NewStatsService(log *logger.Logger, statsRepo repos.UserStatsRepo) StatsService {
	return &statsService{log: log.With("service", "StatsService"), statsRepo: statsRepo}
}

func (s *statsService) Get(dbc dbctx.Context) (*types.UserStats, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	return s.statsRepo.Get(dbc, userID)
}

func (s *statsService) Update(dbc dbctx.Context, in StatsPatchInput) (*types.UserStats, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	switch {
	case in.StudyStreak != nil && *in.StudyStreak < 0:
		return nil, pkgerrors.InvalidArgument("studyStreak must not be negative")
	case in.TotalHoursStudied != nil && *in.TotalHoursStudied < 0:
		return nil, pkgerrors.InvalidArgument("totalHoursStudied must not be negative")
	case in.TotalTopicsMastered != nil && *in.TotalTopicsMastered < 0:
		return nil, pkgerrors.InvalidArgument("totalTopicsMastered must not be negative")
	case in.OverallProgress != nil && (*in.OverallProgress < 0 || *in.OverallProgress > 100):
		return nil, pkgerrors.InvalidArgument("overallProgress must be between 0 and 100")
	}
	return s.statsRepo.Update(dbc, userID, in.patch())
}
