package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/medstudy-backend/internal/domain/user"
)

// StudySession records one block of study. Duration is in minutes.
type StudySession struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string     `gorm:"type:varchar(255);not null;index:idx_session_user_started,priority:1" json:"userId"`
	User              *user.User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	SubjectID         *uuid.UUID `gorm:"type:uuid;index" json:"subjectId"`
	Subject           *Subject   `gorm:"foreignKey:SubjectID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
	Topic             *string    `gorm:"type:text" json:"topic"`
	Duration          int        `gorm:"not null" json:"duration"`
	QuestionsAnswered int        `gorm:"not null;default:0" json:"questionsAnswered"`
	CorrectAnswers    int        `gorm:"not null;default:0" json:"correctAnswers"`
	Notes             *string    `gorm:"type:text" json:"notes"`
	StartedAt         time.Time  `gorm:"not null;index:idx_session_user_started,priority:2" json:"startedAt"`
	EndedAt           *time.Time `json:"endedAt"`
	CreatedAt         time.Time  `gorm:"not null;index" json:"createdAt"`
}

func (StudySession) TableName() string { return "study_sessions" }

func (s *StudySession) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.StartedAt = s.StartedAt.UTC()
	if s.EndedAt != nil {
		ended := s.EndedAt.UTC()
		s.EndedAt = &ended
	}
	return nil
}
