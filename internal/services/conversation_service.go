// File: internal/services/conversation_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kenaine/healthcare-translation/internal/domain"
	convrepo "github.com/Kenaine/healthcare-translation/internal/repository/conversation"
	"github.com/Kenaine/healthcare-translation/internal/repository/message"
	"github.com/Kenaine/healthcare-translation/internal/repository/summary"
	convservice "github.com/Kenaine/healthcare-translation/internal/services/conversation"
)

// Caller identifies who is acting on a conversation: a registered user
// or a guest session.
type Caller struct {
	ID    string
	Role  domain.UserRole
	Guest bool
}

// MessagePublisher delivers freshly persisted messages to push
// subscribers. The realtime hub implements it; a nil-safe no-op is used
// in tests.
type MessagePublisher interface {
	PublishMessage(conversationID string, msg domain.Message)
}

// ConversationService owns the consultation lifecycle: creation, join,
// deletion, and the translate-then-persist message send flow.
type ConversationService struct {
	convRepo    convrepo.ConversationRepository
	messageRepo message.MessageRepository
	summaryRepo summary.SummaryRepository
	translator  *TranslationService
	publisher   MessagePublisher
	logger      Logger
}

func NewConversationService(
	convRepo convrepo.ConversationRepository,
	messageRepo message.MessageRepository,
	summaryRepo summary.SummaryRepository,
	translator *TranslationService,
	publisher MessagePublisher,
	logger Logger,
) (*ConversationService, error) {
	if convRepo == nil {
		return nil, convservice.NewValidationError("constructor", "conversation repository is required")
	}
	if messageRepo == nil {
		return nil, convservice.NewValidationError("constructor", "message repository is required")
	}
	if summaryRepo == nil {
		return nil, convservice.NewValidationError("constructor", "summary repository is required")
	}
	if translator == nil {
		return nil, convservice.NewValidationError("constructor", "translation service is required")
	}
	return &ConversationService{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		summaryRepo: summaryRepo,
		translator:  translator,
		publisher:   publisher,
		logger:      logger,
	}, nil
}

// Create starts a new consultation. Only doctors create conversations;
// the creator is registered as the doctor participant.
func (s *ConversationService) Create(ctx context.Context, creator *domain.User, title, doctorLang, patientLang string) (*domain.Conversation, error) {
	if creator.Role != domain.RoleDoctor {
		return nil, convservice.NewValidationError("create", "only doctors can create conversations")
	}
	if strings.TrimSpace(doctorLang) == "" || strings.TrimSpace(patientLang) == "" {
		return nil, convservice.NewValidationError("create", "doctor and patient languages are required")
	}
	if len(title) > 200 {
		title = title[:200]
	}

	conv := &domain.Conversation{
		ID:              uuid.NewString(),
		CreatorID:       creator.ID,
		Title:           strings.TrimSpace(title),
		DoctorLanguage:  doctorLang,
		PatientLanguage: patientLang,
	}
	created, err := s.convRepo.Create(ctx, conv)
	if err != nil {
		return nil, convservice.NewDatabaseError("create", "could not create conversation", err)
	}

	creatorID := creator.ID
	participant := &domain.ConversationParticipant{
		ID:             uuid.NewString(),
		ConversationID: created.ID,
		UserID:         &creatorID,
		Role:           domain.RoleDoctor,
	}
	if err := s.convRepo.AddParticipant(ctx, participant); err != nil {
		return nil, convservice.NewDatabaseError("create", "could not register creator as participant", err)
	}

	s.logger.Info("conversation created",
		"conversation_id", created.ID, "creator_id", creator.ID)
	return created, nil
}

// List returns the conversations the user participates in.
func (s *ConversationService) List(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return s.convRepo.FindByParticipant(ctx, userID)
}

// Get returns a conversation after verifying the caller participates in
// it, along with the caller's role in the conversation.
func (s *ConversationService) Get(ctx context.Context, conversationID string, caller Caller) (*domain.Conversation, domain.UserRole, error) {
	participant, err := s.findParticipant(ctx, conversationID, caller)
	if err != nil {
		return nil, "", err
	}

	conv, err := s.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, "", convservice.NewNotFoundError(conversationID)
	}
	return conv, participant.Role, nil
}

// Join adds a registered user to a conversation as the patient and
// records their language. Joining twice is success, not an error.
func (s *ConversationService) Join(ctx context.Context, conversationID string, user *domain.User, language string) error {
	if _, err := s.convRepo.FindByID(ctx, conversationID); err != nil {
		return convservice.NewNotFoundError(conversationID)
	}

	_, err := s.convRepo.FindParticipant(ctx, conversationID, user.ID)
	if err == nil {
		// Already joined: idempotent success.
		return nil
	}
	if !errors.Is(err, convrepo.ErrParticipantNotFound) {
		return convservice.NewDatabaseError("join", "could not check participation", err)
	}

	userID := user.ID
	participant := &domain.ConversationParticipant{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		UserID:         &userID,
		Role:           domain.RolePatient,
	}
	if err := s.convRepo.AddParticipant(ctx, participant); err != nil {
		return convservice.NewDatabaseError("join", "could not add participant", err)
	}

	if language != "" {
		if err := s.convRepo.UpdatePatientLanguage(ctx, conversationID, language); err != nil {
			s.logger.Warn("could not update patient language",
				"conversation_id", conversationID, "error", err)
		}
	}

	s.logger.Info("patient joined conversation",
		"conversation_id", conversationID, "user_id", user.ID)
	return nil
}

// Delete removes a conversation and its dependent records. Only the
// creator may delete.
func (s *ConversationService) Delete(ctx context.Context, conversationID, callerID string) error {
	if err := s.convRepo.Delete(ctx, conversationID, callerID); err != nil {
		if errors.Is(err, convrepo.ErrUnauthorizedAccess) {
			return convservice.NewUnauthorizedError(conversationID)
		}
		return convservice.NewDatabaseError("delete", "could not delete conversation", err)
	}

	if err := s.messageRepo.DeleteByConversationID(ctx, conversationID); err != nil {
		s.logger.Warn("could not delete conversation messages",
			"conversation_id", conversationID, "error", err)
	}
	if err := s.summaryRepo.DeleteByConversationID(ctx, conversationID); err != nil {
		s.logger.Warn("could not delete conversation summaries",
			"conversation_id", conversationID, "error", err)
	}

	s.logger.Info("conversation deleted", "conversation_id", conversationID)
	return nil
}

// SendMessage persists a text message with its best-effort translation
// and publishes the canonical record to push subscribers. Translation
// failure never blocks delivery; the translated side falls back to the
// original text.
func (s *ConversationService) SendMessage(ctx context.Context, conversationID string, caller Caller, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, convservice.NewValidationError("send_message", "message text cannot be empty")
	}

	participant, err := s.findParticipant(ctx, conversationID, caller)
	if err != nil {
		return nil, err
	}

	conv, err := s.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, convservice.NewNotFoundError(conversationID)
	}

	sourceLang, targetLang := conv.DoctorLanguage, conv.PatientLanguage
	if participant.Role == domain.RolePatient {
		sourceLang, targetLang = conv.PatientLanguage, conv.DoctorLanguage
	}

	translated, terr := s.translator.Translate(ctx, text, sourceLang, targetLang)
	if terr != nil {
		// Message still goes out untranslated; the sender never sees this.
		s.logger.Warn("message stored without translation",
			"conversation_id", conversationID, "error", terr)
	}

	msg := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       caller.ID,
		SenderRole:     participant.Role,
		OriginalText:   &text,
		TranslatedText: &translated,
		CreatedAt:      time.Now().UTC(),
	}
	saved, err := s.messageRepo.Create(ctx, msg)
	if err != nil {
		return nil, convservice.NewDatabaseError("send_message", "could not save message", err)
	}

	if s.publisher != nil {
		s.publisher.PublishMessage(conversationID, *saved)
	}
	return saved, nil
}

// SendAudioMessage persists an audio-only message. Audio is stored as
// an opaque reference; no transcription or translation is attempted.
func (s *ConversationService) SendAudioMessage(ctx context.Context, conversationID string, caller Caller, audioURL string) (*domain.Message, error) {
	if strings.TrimSpace(audioURL) == "" {
		return nil, convservice.NewValidationError("send_audio", "audio reference cannot be empty")
	}

	participant, err := s.findParticipant(ctx, conversationID, caller)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       caller.ID,
		SenderRole:     participant.Role,
		AudioURL:       &audioURL,
		CreatedAt:      time.Now().UTC(),
	}
	saved, err := s.messageRepo.Create(ctx, msg)
	if err != nil {
		return nil, convservice.NewDatabaseError("send_audio", "could not save message", err)
	}

	if s.publisher != nil {
		s.publisher.PublishMessage(conversationID, *saved)
	}
	return saved, nil
}

// GetMessages returns the full ordered message list for a conversation.
// This is the authoritative fetch behind the polling path.
func (s *ConversationService) GetMessages(ctx context.Context, conversationID string, caller Caller) ([]domain.Message, error) {
	if _, err := s.findParticipant(ctx, conversationID, caller); err != nil {
		return nil, err
	}
	return s.messageRepo.FindByConversationID(ctx, conversationID)
}

// Transcript returns messages for summary generation after verifying
// the caller participates.
func (s *ConversationService) Transcript(ctx context.Context, conversationID string, caller Caller) ([]domain.Message, error) {
	return s.GetMessages(ctx, conversationID, caller)
}

// Search finds messages containing the term across the caller's
// conversations, optionally scoped to a single conversation.
func (s *ConversationService) Search(ctx context.Context, userID, term, conversationID string) ([]domain.Message, error) {
	var ids []string
	if conversationID != "" {
		if _, err := s.findParticipant(ctx, conversationID, Caller{ID: userID}); err != nil {
			return nil, err
		}
		ids = []string{conversationID}
	} else {
		convs, err := s.convRepo.FindByParticipant(ctx, userID)
		if err != nil {
			return nil, convservice.NewDatabaseError("search", "could not list conversations", err)
		}
		for _, c := range convs {
			ids = append(ids, c.ID)
		}
	}
	if len(ids) == 0 {
		return []domain.Message{}, nil
	}
	return s.messageRepo.Search(ctx, ids, term, 50)
}

// Participants lists the participants of a conversation for display.
func (s *ConversationService) Participants(ctx context.Context, conversationID string, caller Caller) ([]domain.ConversationParticipant, error) {
	if _, err := s.findParticipant(ctx, conversationID, caller); err != nil {
		return nil, err
	}
	return s.convRepo.ListParticipants(ctx, conversationID)
}

// findParticipant resolves the caller's membership record. A missing
// record is an immediate authorization rejection, never retried.
func (s *ConversationService) findParticipant(ctx context.Context, conversationID string, caller Caller) (*domain.ConversationParticipant, error) {
	var (
		participant *domain.ConversationParticipant
		err         error
	)
	if caller.Guest {
		participant, err = s.convRepo.FindGuestParticipant(ctx, conversationID, caller.ID)
	} else {
		participant, err = s.convRepo.FindParticipant(ctx, conversationID, caller.ID)
	}
	if err != nil {
		if errors.Is(err, convrepo.ErrParticipantNotFound) {
			return nil, convservice.NewUnauthorizedError(conversationID)
		}
		return nil, convservice.NewDatabaseError("authorization", "could not verify participation", err)
	}
	return participant, nil
}
