package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/medstudy-backend/internal/data/repos/chat"
	"github.com/yungbote/medstudy-backend/internal/data/repos/study"
	"github.com/yungbote/medstudy-backend/internal/data/repos/user"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserStatsRepo = user.UserStatsRepo

type SubjectRepo = study.SubjectRepo
type ProgressRepo = study.ProgressRepo
type StudySessionRepo = study.StudySessionRepo
type NoteRepo = study.NoteRepo

type ChatMessageRepo = chat.ChatMessageRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewUserStatsRepo(db *gorm.DB, log *logger.Logger) UserStatsRepo {
	return user.NewUserStatsRepo(db, log)
}

func NewSubjectRepo(db *gorm.DB, log *logger.Logger) SubjectRepo {
	return study.NewSubjectRepo(db, log)
}
func NewProgressRepo(db *gorm.DB, log *logger.Logger) ProgressRepo {
	return study.NewProgressRepo(db, log)
}
func NewStudySessionRepo(db *gorm.DB, log *logger.Logger) StudySessionRepo {
	return study.NewStudySessionRepo(db, log)
}
func NewNoteRepo(db *gorm.DB, log *logger.Logger) NoteRepo { return study.NewNoteRepo(db, log) }

func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return chat.NewChatMessageRepo(db, log)
}
