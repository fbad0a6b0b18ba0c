package chat

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/medstudy-backend/internal/domain"
	"github.com/yungbote/medstudy-backend/internal/pkg/dbctx"
	"github.com/yungbote/medstudy-backend/internal/platform/logger"
)

const DefaultHistoryLimit = 50

type ChatMessageRepo interface {
	Create(dbc dbctx.Context, m *types.ChatMessage) (*types.ChatMessage, error)
	ListByUser(dbc dbctx.Context, userID string, limit int) ([]*types.ChatMessage, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Create(dbc dbctx.Context, m *types.ChatMessage) (*types.ChatMessage, error) {
	if err := dbc.DB(r.db).Create(m).Error; err != nil {
		return nil, fmt.Errorf("create chat message: %w", err)
	}
	return m, nil
}

func (r *chatMessageRepo) ListByUser(dbc dbctx.Context, userID string, limit int) ([]*types.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	out := []*types.ChatMessage{}
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return out, nil
}
