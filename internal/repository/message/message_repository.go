package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

var ErrMessageNotFound = errors.New("message not found")

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(message).Error
	if err != nil {
		// Secure logging - no medical content exposed
		log.Printf("[MessageRepository] Database error during message creation for conversation %s: %v", message.ConversationID, err)
		return nil, errors.New("database error creating message")
	}

	log.Printf("[MessageRepository] Message created with ID: %s for conversation: %s", message.ID, message.ConversationID)
	return message, nil
}

// FindByConversationID returns the full ordered message list for a
// conversation, creation time ascending. This is the authoritative
// fetch behind the polling reconciliation path.
func (r *gormMessageRepository) FindByConversationID(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if conversationID == "" {
		return nil, errors.New("invalid conversation ID")
	}

	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error finding messages for conversation %s: %v", conversationID, err)
		return nil, errors.New("database error fetching messages")
	}
	return messages, nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	if messageID == "" {
		return nil, errors.New("invalid message ID")
	}

	var message domain.Message
	err := r.db.WithContext(ctx).Where("id = ?", messageID).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		log.Printf("[MessageRepository] Database error finding message %s: %v", messageID, err)
		return nil, errors.New("database error fetching message")
	}
	return &message, nil
}

func (r *gormMessageRepository) CountByConversationID(ctx context.Context, conversationID string) (int64, error) {
	if conversationID == "" {
		return 0, errors.New("invalid conversation ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for conversation %s: %v", conversationID, err)
		return 0, errors.New("database error counting messages")
	}
	return count, nil
}

// Search finds text messages containing the term across the given
// conversations, newest first. Matching covers both the original and
// the translated side so either party finds the message in their own
// language.
func (r *gormMessageRepository) Search(ctx context.Context, conversationIDs []string, term string, limit int) ([]domain.Message, error) {
	if len(conversationIDs) == 0 {
		return []domain.Message{}, nil
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, errors.New("search term cannot be empty")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	pattern := "%" + term + "%"
	var messages []domain.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id IN ?", conversationIDs).
		Where("original_text LIKE ? OR translated_text LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error searching messages: %v", err)
		return nil, errors.New("database error searching messages")
	}
	return messages, nil
}

func (r *gormMessageRepository) DeleteByConversationID(ctx context.Context, conversationID string) error {
	if conversationID == "" {
		return errors.New("invalid conversation ID")
	}

	result := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Delete(&domain.Message{})
	if result.Error != nil {
		log.Printf("[MessageRepository] Database error deleting messages for conversation %s: %v", conversationID, result.Error)
		return errors.New("database error deleting messages")
	}

	log.Printf("[MessageRepository] Deleted %d messages for conversation %s", result.RowsAffected, conversationID)
	return nil
}

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.ConversationID == "" {
		return errors.New("conversation ID is required")
	}
	if message.SenderID == "" {
		return errors.New("sender ID is required")
	}
	hasText := message.OriginalText != nil && strings.TrimSpace(*message.OriginalText) != ""
	hasAudio := message.AudioURL != nil && *message.AudioURL != ""
	if !hasText && !hasAudio {
		return errors.New("message must carry text or an audio reference")
	}
	if hasText && hasAudio {
		return errors.New("message cannot carry both text and audio")
	}
	return nil
}
