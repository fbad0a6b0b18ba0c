package services

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/medstudy-backend/internal/data/repos"
	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/progress"
)

// recommendationHistorySize bounds the sessions summarised for the model.
const recommendationHistorySize = 20

// ChatService ties the AI operations to the caller's stored data.
type ChatService interface {
	// Ask answers a question and appends it to the caller's chat history.
	// Nothing is stored when the model call fails.
	Ask(dbc dbctx.Context, question, questionContext string) (QuestionAnswer, error)
	History(dbc dbctx.Context, limit int) ([]*types.ChatMessage, error)
	Recommendations(dbc dbctx.Context) ([]StudyRecommendation, error)
	EnhanceNotes(dbc dbctx.Context, notes, subject string) (string, error)
	GenerateMCQs(dbc dbctx.Context, subject, topic, difficulty string) ([]MCQ, error)
}

type chatService struct {
	log          *logger.Logger
	ai           AIService
	messageRepo  repos.ChatMessageRepo
	progressRepo repos.ProgressRepo
	sessionRepo  repos.StudySessionRepo
	subjectRepo  repos.SubjectRepo
}

func NewChatService(
	log *logger.Logger,
	ai AIService,
	messageRepo repos.ChatMessageRepo,
	progressRepo repos.ProgressRepo,
	sessionRepo repos.StudySessionRepo,
	subjectRepo repos.SubjectRepo,
) ChatService {
	return &chatService{
		log:          log.With("service", "ChatService"),
		ai:           ai,
		messageRepo:  messageRepo,
		progressRepo: progressRepo,
		sessionRepo:  sessionRepo,
		subjectRepo:  subjectRepo,
	}
}

func (cs *chatService) Ask(dbc dbctx.Context, question, questionContext string) (QuestionAnswer, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return QuestionAnswer{}, err
	}
	answer, err := cs.ai.AskMedicalQuestion(dbc.Ctx, question, questionContext)
	if err != nil {
		return QuestionAnswer{}, err
	}
	if _, err := cs.messageRepo.Create(dbc, &types.ChatMessage{
		UserID:   userID,
		Message:  question,
		Response: answer.Answer,
	}); err != nil {
		return QuestionAnswer{}, fmt.Errorf("save chat message: %w", err)
	}
	return answer, nil
}

func (cs *chatService) History(dbc dbctx.Context, limit int) ([]*types.ChatMessage, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}
	return cs.messageRepo.ListByUser(dbc, userID, limit)
}

func (cs *chatService) EnhanceNotes(dbc dbctx.Context, notes, subject string) (string, error) {
	if _, err := callerID(dbc); err != nil {
		return "", err
	}
	return cs.ai.EnhanceNotes(dbc.Ctx, notes, subject)
}

func (cs *chatService) GenerateMCQs(dbc dbctx.Context, subject, topic, difficulty string) ([]MCQ, error) {
	if _, err := callerID(dbc); err != nil {
		return nil, err
	}
	return cs.ai.GenerateMCQs(dbc.Ctx, subject, topic, difficulty)
}

func (cs *chatService) Recommendations(dbc dbctx.Context) ([]StudyRecommendation, error) {
	userID, err := callerID(dbc)
	if err != nil {
		return nil, err
	}

	var (
		rows     []*types.UserSubjectProgress
		sessions []*types.StudySession
		subjects []*types.Subject
	)
	g, gctx := errgroup.WithContext(dbc.Ctx)
	if dbc.Tx != nil {
		// A transaction holds a single connection.
		g.SetLimit(1)
	}
	inner := dbctx.Context{Ctx: gctx, Tx: dbc.Tx}
	g.Go(func() (err error) {
		rows, err = cs.progressRepo.ListByUser(inner, userID)
		return err
	})
	g.Go(func() (err error) {
		sessions, err = cs.sessionRepo.ListByUser(inner, userID, recommendationHistorySize)
		return err
	})
	g.Go(func() (err error) {
		subjects, err = cs.subjectRepo.List(inner)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load recommendation inputs: %w", err)
	}

	names := make(map[uuid.UUID]string, len(subjects))
	for _, s := range subjects {
		names[s.ID] = s.Name
	}
	snapshots := make([]ProgressSnapshot, 0, len(rows))
	for _, p := range rows {
		snapshots = append(snapshots, ProgressSnapshot{
			Subject:     subjectName(names, &p.SubjectID),
			Progress:    p.ProgressPercentage,
			LastStudied: p.LastStudiedAt,
		})
	}
	history := make([]StudyHistoryItem, 0, len(sessions))
	for _, s := range sessions {
		history = append(history, StudyHistoryItem{
			Subject:  subjectName(names, s.SubjectID),
			Duration: s.Duration,
			Accuracy: progress.Accuracy(s.CorrectAnswers, s.QuestionsAnswered),
		})
	}
	return cs.ai.GenerateStudyRecommendations(dbc.Ctx, snapshots, history)
}

func subjectName(names map[uuid.UUID]string, id *uuid.UUID) string {
	if id == nil {
		return "General"
	}
	if n, ok := names[*id]; ok {
		return n
	}
	return "Unknown"
}
