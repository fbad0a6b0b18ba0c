package chat

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/medstudy-backend/internal/domain/user"
)

// ChatMessage is one question/answer exchange with the assistant. Rows are
// append-only.
type ChatMessage struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string     `gorm:"type:varchar(255);not null;index:idx_chat_message_user_created,priority:1" json:"userId"`
	User      *user.User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Response  string     `gorm:"type:text;not null" json:"response"`
	CreatedAt time.Time  `gorm:"not null;index:idx_chat_message_user_created,priority:2" json:"createdAt"`
}

func (ChatMessage) TableName() string { return "chat_messages" }

func (m *ChatMessage) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
