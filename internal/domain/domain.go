package domain

import (
	"github.com/yungbote/medstudy-backend/internal/domain/chat"
	"github.com/yungbote/medstudy-backend/internal/domain/study"
	"github.com/yungbote/medstudy-backend/internal/domain/user"
)

type User = user.User
type UserStats = user.UserStats
type UserStatsPatch = user.UserStatsPatch

type Subject = study.Subject
type UserSubjectProgress = study.UserSubjectProgress
type StudySession = study.StudySession
type Note = study.Note
type NotePatch = study.NotePatch
type ProgressPatch = study.ProgressPatch

type ChatMessage = chat.ChatMessage

// AllModels lists every persisted model in dependency order.
func AllModels() []any {
	return []any{
		&User{},
		&Subject{},
		&UserStats{},
		&UserSubjectProgress{},
		&StudySession{},
		&Note{},
		&ChatMessage{},
	}
}
