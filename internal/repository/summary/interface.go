package summary

import (
	"context"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

// SummaryRepository handles visit-summary data operations. Summaries
// accumulate as history; the latest one is the current view.
type SummaryRepository interface {
	Create(ctx context.Context, summary *domain.Summary) (*domain.Summary, error)
	FindLatestByConversationID(ctx context.Context, conversationID string) (*domain.Summary, error)
	FindByConversationID(ctx context.Context, conversationID string) ([]domain.Summary, error)
	DeleteByConversationID(ctx context.Context, conversationID string) error
}
