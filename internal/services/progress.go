package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/medstudy-backend/internal/data/repos"
	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/medstudy-backend/internal/pkg/errors"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

// ProgressInput creates or updates the caller's row for SubjectID. Omitted
// fields keep their stored value.
type ProgressInput struct {
	SubjectID          uuid.UUID  `json:"subjectId" binding:"required"`
	ProgressPercentage *float64   `json:"progressPercentage" binding:"omitempty,min=0,max=100"`
	TopicsMastered     *int       `json:"topicsMastered" binding:"omitempty,min=0"`
	CurrentTopic       *string    `json:"currentTopic"`
	LastStudiedAt      *time.Time `json:"lastStudiedAt"`
}

func (in ProgressInput) patch() types.ProgressPatch {
	return types.ProgressPatch{
		ProgressPercentage: in.ProgressPercentage,
		TopicsMastered:     in.TopicsMastered,
		CurrentTopic:       in.CurrentTopic,
		LastStudiedAt:      in.LastStudiedAt,
	}
}

type ProgressService interface {
	List(dbc dbctx.Context) ([]*types.UserSubjectProgress, error)
	Upsert(dbc dbctx.Context, in ProgressInput) (*types.UserSubjectProgress, error)
}

type progressService struct {
	log          *logger.Logger
	progressRepo repos.ProgressRepo
}

func NewProgressService(log *logger.Logger, progressRepo repos.ProgressRepo) ProgressService {
	return &progressService{
		log:          log.With("service", "ProgressService"),
		progressRepo: progressRepo,
	}
}

func (ps *progressService) List(dbc dbctx.Context) ([]*types.UserSubjectProgress, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	return ps.progressRepo.ListByUser(dbc, userID)
}

func (ps *progressService) Upsert(dbc dbctx.Context, in ProgressInput) (*types.UserSubjectProgress, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	switch {
	case in.SubjectID == uuid.Nil:
		return nil, pkgerrors.InvalidArgument("subjectId is required")
	case in.ProgressPercentage != nil && (*in.ProgressPercentage < 0 || *in.ProgressPercentage > 100):
		return nil, pkgerrors.InvalidArgument("progressPercentage must be between 0 and 100")
	case in.TopicsMastered != nil && *in.TopicsMastered < 0:
		return nil, pkgerrors.InvalidArgument("topicsMastered must not be negative")
	}
	return ps.progressRepo.Upsert(dbc, userID, in.SubjectID, in.patch())
}
