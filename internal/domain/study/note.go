package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/medstudy-backend/internal/domain/user"
)

type Note struct {
	ID            uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string                      `gorm:"type:varchar(255);not null;index" json:"userId"`
	User          *user.User                  `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	SubjectID     *uuid.UUID                  `gorm:"type:uuid;index" json:"subjectId"`
	Subject       *Subject                    `gorm:"foreignKey:SubjectID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
	Title         string                      `gorm:"type:varchar(255);not null" json:"title"`
	Content       string                      `gorm:"type:text;not null" json:"content"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	IsAIGenerated bool                        `gorm:"column:is_ai_generated;not null;default:false" json:"isAiGenerated"`
	CreatedAt     time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time                   `gorm:"not null;index" json:"updatedAt"`
}

func (Note) TableName() string { return "notes" }

func (n *Note) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Tags == nil {
		n.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}
