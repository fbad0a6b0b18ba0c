package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStats struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_user_stats_user" json:"userId"`
	User                *User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	StudyStreak         int        `gorm:"not null;default:0" json:"studyStreak"`
	TotalHoursStudied   float64    `gorm:"not null;default:0" json:"totalHoursStudied"`
	TotalTopicsMastered int        `gorm:"not null;default:0" json:"totalTopicsMastered"`
	OverallProgress     float64    `gorm:"not null;default:0" json:"overallProgress"`
	LastActiveDate      *time.Time `json:"lastActiveDate"`
	CreatedAt           time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updatedAt"`
}

func (UserStats) TableName() string { return "user_stats" }

func (s *UserStats) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
