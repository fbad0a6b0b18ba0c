package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/medstudy-backend/internal/domain/user"
)

type UserSubjectProgress struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_progress_user_subject,priority:1" json:"userId"`
	User               *user.User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	SubjectID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_subject,priority:2" json:"subjectId"`
	Subject            *Subject   `gorm:"foreignKey:SubjectID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	ProgressPercentage float64    `gorm:"not null;default:0" json:"progressPercentage"`
	TopicsMastered     int        `gorm:"not null;default:0" json:"topicsMastered"`
	CurrentTopic       *string    `gorm:"type:text" json:"currentTopic"`
	LastStudiedAt      *time.Time `json:"lastStudiedAt"`
	UpdatedAt          time.Time  `gorm:"not null" json:"updatedAt"`
}

func (UserSubjectProgress) TableName() string { return "user_subject_progress" }

func (p *UserSubjectProgress) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
