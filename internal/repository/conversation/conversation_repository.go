package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

var ErrConversationNotFound = errors.New("conversation not found")
var ErrUnauthorizedAccess = errors.New("unauthorized access to conversation")
var ErrParticipantNotFound = errors.New("participant not found")

type gormConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &gormConversationRepository{db: db}
}

func (r *gormConversationRepository) Create(ctx context.Context, conv *domain.Conversation) (*domain.Conversation, error) {
	if err := r.validateConversationInput(conv); err != nil {
		log.Printf("[ConversationRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(conv).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error during creation for creator %s: %v", conv.CreatorID, err)
		return nil, errors.New("database error creating conversation")
	}

	log.Printf("[ConversationRepository] Conversation created with ID: %s by creator: %s", conv.ID, conv.CreatorID)
	return conv, nil
}

func (r *gormConversationRepository) FindByID(ctx context.Context, id string) (*domain.Conversation, error) {
	if id == "" {
		return nil, errors.New("invalid conversation ID")
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		log.Printf("[ConversationRepository] Database error finding conversation %s: %v", id, err)
		return nil, errors.New("database error fetching conversation")
	}
	return &conv, nil
}

// FindByParticipant returns conversations the user participates in,
// most recently created first.
func (r *gormConversationRepository) FindByParticipant(ctx context.Context, userID string) ([]domain.Conversation, error) {
	if userID == "" {
		return nil, errors.New("invalid user ID")
	}

	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Joins("JOIN conversation_participants ON conversation_participants.conversation_id = conversations.id").
		Where("conversation_participants.user_id = ?", userID).
		Order("conversations.created_at DESC").
		Find(&convs).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error finding conversations for user %s: %v", userID, err)
		return nil, errors.New("database error fetching conversations")
	}
	return convs, nil
}

func (r *gormConversationRepository) UpdatePatientLanguage(ctx context.Context, conversationID, language string) error {
	if conversationID == "" || language == "" {
		return errors.New("invalid conversation ID or language")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Update("patient_language", language)
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error updating patient language for %s: %v", conversationID, result.Error)
		return errors.New("database error updating conversation")
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// Delete removes a conversation. Only the creator may delete; the
// creator check rides in the WHERE clause so a non-creator sees the
// same unauthorized error as a missing row.
func (r *gormConversationRepository) Delete(ctx context.Context, conversationID, creatorID string) error {
	if conversationID == "" || creatorID == "" {
		return errors.New("invalid conversation ID or creator ID")
	}

	result := r.db.WithContext(ctx).
		Where("id = ? AND creator_id = ?", conversationID, creatorID).
		Delete(&domain.Conversation{})
	if result.Error != nil {
		log.Printf("[ConversationRepository] Database error deleting conversation %s: %v", conversationID, result.Error)
		return errors.New("database error deleting conversation")
	}
	if result.RowsAffected == 0 {
		return ErrUnauthorizedAccess
	}

	log.Printf("[ConversationRepository] Conversation deleted: %s by creator %s", conversationID, creatorID)
	return nil
}

func (r *gormConversationRepository) AddParticipant(ctx context.Context, p *domain.ConversationParticipant) error {
	if p.ConversationID == "" {
		return errors.New("invalid conversation ID")
	}
	if p.UserID == nil && p.GuestSessionID == nil {
		return errors.New("participant must reference a user or a guest session")
	}

	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		log.Printf("[ConversationRepository] Database error adding participant to %s: %v", p.ConversationID, err)
		return errors.New("database error adding participant")
	}
	return nil
}

func (r *gormConversationRepository) FindParticipant(ctx context.Context, conversationID, userID string) (*domain.ConversationParticipant, error) {
	if conversationID == "" || userID == "" {
		return nil, errors.New("invalid conversation ID or user ID")
	}

	var p domain.ConversationParticipant
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		log.Printf("[ConversationRepository] Database error finding participant in %s: %v", conversationID, err)
		return nil, errors.New("database error fetching participant")
	}
	return &p, nil
}

func (r *gormConversationRepository) FindGuestParticipant(ctx context.Context, conversationID, guestSessionID string) (*domain.ConversationParticipant, error) {
	if conversationID == "" || guestSessionID == "" {
		return nil, errors.New("invalid conversation ID or guest session ID")
	}

	var p domain.ConversationParticipant
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND guest_session_id = ?", conversationID, guestSessionID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		log.Printf("[ConversationRepository] Database error finding guest participant in %s: %v", conversationID, err)
		return nil, errors.New("database error fetching participant")
	}
	return &p, nil
}

func (r *gormConversationRepository) ListParticipants(ctx context.Context, conversationID string) ([]domain.ConversationParticipant, error) {
	if conversationID == "" {
		return nil, errors.New("invalid conversation ID")
	}

	var participants []domain.ConversationParticipant
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("joined_at ASC").
		Find(&participants).Error
	if err != nil {
		log.Printf("[ConversationRepository] Database error listing participants for %s: %v", conversationID, err)
		return nil, errors.New("database error fetching participants")
	}
	return participants, nil
}

func (r *gormConversationRepository) validateConversationInput(conv *domain.Conversation) error {
	if conv == nil {
		return errors.New("conversation cannot be nil")
	}
	if conv.CreatorID == "" {
		return errors.New("creator ID is required")
	}
	if strings.TrimSpace(conv.DoctorLanguage) == "" || strings.TrimSpace(conv.PatientLanguage) == "" {
		return errors.New("doctor and patient languages are required")
	}
	if len(conv.Title) > 200 {
		return errors.New("title exceeds maximum length of 200 characters")
	}
	return nil
}
