package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subject is a medical discipline shared by every user.
type Subject struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	Icon        *string   `gorm:"type:varchar(50)" json:"icon"`
	Color       *string   `gorm:"type:varchar(20)" json:"color"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}

func (Subject) TableName() string { return "subjects" }

func (s *Subject) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
