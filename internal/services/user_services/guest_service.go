// File: internal/services/user_services/guest_service.go
package user_services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kenaine/healthcare-translation/internal/domain"
	convrepo "github.com/Kenaine/healthcare-translation/internal/repository/conversation"
	"github.com/Kenaine/healthcare-translation/internal/repository/guest"
)

// guestSessionTTL bounds how long a share-link session stays usable.
const guestSessionTTL = 24 * time.Hour

// GuestService lets a patient join a consultation through a share link
// without an account. Sessions are scoped to one conversation.
type GuestService struct {
	guestRepo guest.GuestRepository
	convRepo  convrepo.ConversationRepository
	logger    Logger
}

func NewGuestService(guestRepo guest.GuestRepository, convRepo convrepo.ConversationRepository, logger Logger) *GuestService {
	return &GuestService{
		guestRepo: guestRepo,
		convRepo:  convRepo,
		logger:    logger,
	}
}

// JoinAsGuest creates a guest session and registers it as the patient
// participant of the conversation.
func (s *GuestService) JoinAsGuest(ctx context.Context, conversationID, guestName string) (*domain.GuestSession, error) {
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return nil, errors.New("guest name is required")
	}

	if _, err := s.convRepo.FindByID(ctx, conversationID); err != nil {
		return nil, errors.New("conversation not found")
	}

	session := &domain.GuestSession{
		SessionID:      uuid.NewString(),
		GuestName:      guestName,
		ConversationID: conversationID,
		ExpiresAt:      time.Now().Add(guestSessionTTL),
	}
	created, err := s.guestRepo.Create(ctx, session)
	if err != nil {
		return nil, err
	}

	sessionID := created.SessionID
	participant := &domain.ConversationParticipant{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		GuestSessionID: &sessionID,
		Role:           domain.RolePatient,
	}
	if err := s.convRepo.AddParticipant(ctx, participant); err != nil {
		return nil, err
	}

	s.logger.Info("guest joined conversation",
		"conversation_id", conversationID, "session_id", created.SessionID)
	return created, nil
}

// ValidateSession resolves a guest session ID to a live session.
// Expired sessions are rejected.
func (s *GuestService) ValidateSession(ctx context.Context, sessionID string) (*domain.GuestSession, error) {
	session, err := s.guestRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsValid() {
		return nil, errors.New("guest session expired")
	}
	return session, nil
}

// CleanupExpired removes stale sessions; called periodically at boot.
func (s *GuestService) CleanupExpired(ctx context.Context) {
	if n, err := s.guestRepo.DeleteExpired(ctx); err == nil && n > 0 {
		s.logger.Info("expired guest sessions removed", "count", n)
	}
}
