package message

import (
	"context"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

// MessageRepository handles message data operations. Conversation
// streams are append-only; messages are never updated after creation.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (*domain.Message, error)
	FindByConversationID(ctx context.Context, conversationID string) ([]domain.Message, error)
	FindByID(ctx context.Context, messageID string) (*domain.Message, error)
	CountByConversationID(ctx context.Context, conversationID string) (int64, error)
	Search(ctx context.Context, conversationIDs []string, term string, limit int) ([]domain.Message, error)
	DeleteByConversationID(ctx context.Context, conversationID string) error
}
