package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/medstudy-backend/internal/data/repos"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

type Repos struct {
	User         repos.UserRepo
	UserStats    repos.UserStatsRepo
	Subject      repos.SubjectRepo
	Progress     repos.ProgressRepo
	StudySession repos.StudySessionRepo
	Note         repos.NoteRepo
	ChatMessage  repos.ChatMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserStats:    repos.NewUserStatsRepo(db, log),
		Subject:      repos.NewSubjectRepo(db, log),
		Progress:     repos.NewProgressRepo(db, log),
		StudySession: repos.NewStudySessionRepo(db, log),
		Note:         repos.NewNoteRepo(db, log),
		ChatMessage:  repos.NewChatMessageRepo(db, log),
	}
}
