package summary

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

var ErrSummaryNotFound = errors.New("summary not found")

type gormSummaryRepository struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) SummaryRepository {
	return &gormSummaryRepository{db: db}
}

func (r *gormSummaryRepository) Create(ctx context.Context, summary *domain.Summary) (*domain.Summary, error) {
	if summary == nil || summary.ConversationID == "" {
		return nil, errors.New("invalid summary input")
	}
	if strings.TrimSpace(summary.OverallSummary) == "" {
		return nil, fmt.Errorf("validation failed: overall summary is required")
	}

	err := r.db.WithContext(ctx).Create(summary).Error
	if err != nil {
		log.Printf("[SummaryRepository] Database error during summary creation for conversation %s: %v", summary.ConversationID, err)
		return nil, errors.New("database error creating summary")
	}

	log.Printf("[SummaryRepository] Summary created with ID: %s for conversation: %s", summary.ID, summary.ConversationID)
	return summary, nil
}

func (r *gormSummaryRepository) FindLatestByConversationID(ctx context.Context, conversationID string) (*domain.Summary, error) {
	if conversationID == "" {
		return nil, errors.New("invalid conversation ID")
	}

	var summary domain.Summary
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&summary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSummaryNotFound
		}
		log.Printf("[SummaryRepository] Database error finding latest summary for conversation %s: %v", conversationID, err)
		return nil, errors.New("database error fetching summary")
	}
	return &summary, nil
}

func (r *gormSummaryRepository) FindByConversationID(ctx context.Context, conversationID string) ([]domain.Summary, error) {
	if conversationID == "" {
		return nil, errors.New("invalid conversation ID")
	}

	var summaries []domain.Summary
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Find(&summaries).Error
	if err != nil {
		log.Printf("[SummaryRepository] Database error finding summaries for conversation %s: %v", conversationID, err)
		return nil, errors.New("database error fetching summaries")
	}
	return summaries, nil
}

func (r *gormSummaryRepository) DeleteByConversationID(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return errors.New("invalid conversation ID")
	}

	result := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&domain.Summary{})
	if result.Error != nil {
		log.Printf("[SummaryRepository] Database error deleting summaries for conversation %s: %v", conversationID, result.Error)
		return errors.New("database error deleting summaries")
	}
	return nil
}
