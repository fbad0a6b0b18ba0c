package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/medstudy-backend/internal/platform/logger"
	"github.com/yungbote/medstudy-backend/internal/platform/openai"
	"github.com/yungbote/medstudy-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Subject      services.SubjectService
	Progress     services.ProgressService
	StudySession services.StudySessionService
	Note         services.NoteService
	Stats        services.StatsService
	AI           services.AIService
	Chat         services.ChatService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, llm openai.Client) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.JWTSecretKey, cfg.JWTIssuer)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}
	subjects, err := services.NewSubjectService(db, log, r.Subject)
	if err != nil {
		return Services{}, fmt.Errorf("init subject service: %w", err)
	}
	ai := services.NewAIService(log, llm)

	return Services{
		Auth:         auth,
		User:         services.NewUserService(db, log, r.User, r.UserStats),
		Subject:      subjects,
		Progress:     services.NewProgressService(log, r.Progress),
		StudySession: services.NewStudySessionService(log, r.StudySession),
		Note:         services.NewNoteService(log, r.Note),
		Stats:        services.NewStatsService(log, r.UserStats),
		AI:           ai,
		Chat:         services.NewChatService(log, ai, r.ChatMessage, r.Progress, r.StudySession, r.Subject),
	}, nil
}

// newLLMClient returns a disabled client when no API key is configured, so
// the non-AI routes keep working.
func newLLMClient(log *logger.Logger, cfg openai.Config) (openai.Client, error) {
	if cfg.APIKey == "" {
		log.Warn("OPENAI_API_KEY not set; AI routes will return 502")
		return openai.Disabled("OPENAI_API_KEY not set"), nil
	}
	return openai.NewClient(log, cfg)
}
