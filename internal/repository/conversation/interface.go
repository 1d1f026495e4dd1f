package conversation

import (
	"context"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

// ConversationRepository handles conversation and participant data
// operations.
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error)
	FindByID(ctx context.Context, id string) (*domain.Conversation, error)
	FindByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error)
	UpdatePatientLanguage(ctx context.Context, conversationID, language string) error
	Delete(ctx context.Context, conversationID, creatorID string) error

	AddParticipant(ctx context.Context, p *domain.ConversationParticipant) error
	FindParticipant(ctx context.Context, conversationID, userID string) (*domain.ConversationParticipant, error)
	FindGuestParticipant(ctx context.Context, conversationID, guestSessionID string) (*domain.ConversationParticipant, error)
	ListParticipants(ctx context.Context, conversationID string) ([]domain.ConversationParticipant, error)
}
