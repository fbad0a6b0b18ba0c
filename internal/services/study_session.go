package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/medstudy-backend/internal/data/repos"
	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/progress"
)

// WeeklyWindow is how far back the weekly views look.
const WeeklyWindow = 7 * 24 * time.Hour

type StudySessionInput struct {
	SubjectID         *uuid.UUID `json:"subjectId"`
	Topic             *string    `json:"topic"`
	Duration          int        `json:"duration" binding:"required,min=1"`
	QuestionsAnswered int        `json:"questionsAnswered" binding:"min=0"`
	CorrectAnswers    int        `json:"correctAnswers" binding:"min=0"`
	Notes             *string    `json:"notes"`
	StartedAt         *time.Time `json:"startedAt" binding:"required"`
	EndedAt           *time.Time `json:"endedAt"`
}

type StudySessionService interface {
	List(dbc dbctx.Context, limit int) ([]*types.StudySession, error)
	Weekly(dbc dbctx.Context) ([]*types.StudySession, error)
	WeeklySummary(dbc dbctx.Context, loc *time.Location) (progress.Summary, error)
	Create(dbc dbctx.Context, in StudySessionInput) (*types.StudySession, error)
}

type studySessionService struct {
	log         *logger.Logger
	sessionRepo repos.StudySessionRepo
	now         func() time.Time
}

func NewStudySessionService(log *logger.Logger, sessionRepo repos.StudySessionRepo) StudySessionService {
	return &studySessionService{
		log:         log.With("service", "StudySessionService"),
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

func (ss *studySessionService) List(dbc dbctx.Context, limit int) ([]*types.StudySession, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	return ss.sessionRepo.ListByUser(dbc, userID, limit)
}

func (ss *studySessionService) Weekly(dbc dbctx.Context) ([]*types.StudySession, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	return ss.sessionRepo.ListSince(dbc, userID, ss.now().Add(-WeeklyWindow))
}

func (ss *studySessionService) WeeklySummary(dbc dbctx.Context, loc *time.Location) (progress.Summary, error) {
	sessions, err := ss.Weekly(dbc)
	if err != nil {
		return progress.Summary{}, err
	}
	return progress.WeeklySummary(sessions, ss.now(), loc), nil
}

func (ss *studySessionService) Create(dbc dbctx.Context, in StudySessionInput) (*types.StudySession, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	switch {
	case in.Duration <= 0:
		return nil, pkgerrors.InvalidArgument("duration must be positive")
	case in.StartedAt == nil || in.StartedAt.IsZero():
		return nil, pkgerrors.InvalidArgument("startedAt is required")
	case in.QuestionsAnswered < 0 || in.CorrectAnswers < 0:
		return nil, pkgerrors.InvalidArgument("question counts must not be negative")
	case in.CorrectAnswers > in.QuestionsAnswered:
		return nil, pkgerrors.InvalidArgument("correctAnswers exceeds questionsAnswered")
	case in.EndedAt != nil && in.EndedAt.Before(*in.StartedAt):
		return nil, pkgerrors.InvalidArgument("endedAt is before startedAt")
	}
	return ss.sessionRepo.Create(dbc, &types.StudySession{
		UserID:            userID,
		SubjectID:         in.SubjectID,
		Topic:             in.Topic,
		Duration:          in.Duration,
		QuestionsAnswered: in.QuestionsAnswered,
		CorrectAnswers:    in.CorrectAnswers,
		Notes:             in.Notes,
		StartedAt:         *in.StartedAt,
		EndedAt:           in.EndedAt,
	})
}
