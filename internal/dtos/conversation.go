// File: internal/dtos/conversation.go
package dtos

import (
	"time"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

// UserResponseDTO defines what fields to expose in user API responses.
// Sensitive fields like password hashes are excluded.
type UserResponseDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// RegisterRequestDTO represents the expected payload to create a new account.
type RegisterRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
	Role     string `json:"role" validate:"required,oneof=doctor patient"`
	Language string `json:"language,omitempty"`
}

// LoginRequestDTO represents the login payload.
type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponseDTO represents the login response.
type LoginResponseDTO struct {
	User  UserResponseDTO `json:"user"`
	Token string          `json:"token"`
}

// ConversationCreateRequestDTO represents the payload to start a consultation.
type ConversationCreateRequestDTO struct {
	Title           string `json:"title"`
	DoctorLanguage  string `json:"doctor_language" validate:"required"`
	PatientLanguage string `json:"patient_language" validate:"required"`
}

// ConversationResponseDTO is the public shape of a consultation.
type ConversationResponseDTO struct {
	ID              string `json:"id"`
	CreatorID       string `json:"creator_id"`
	Title           string `json:"title,omitempty"`
	DoctorLanguage  string `json:"doctor_language"`
	PatientLanguage string `json:"patient_language"`
	CreatedAt       string `json:"created_at"`
}

// JoinRequestDTO represents the payload to join an existing consultation.
type JoinRequestDTO struct {
	Language string `json:"language,omitempty"`
}

// GuestJoinRequestDTO represents the payload for joining without an account.
type GuestJoinRequestDTO struct {
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
	Language    string `json:"language,omitempty"`
}

// SendMessageRequestDTO represents an outgoing chat message.
type SendMessageRequestDTO struct {
	Text     string `json:"text,omitempty"`
	AudioURL string `json:"audio_url,omitempty"`
}

// MessageResponseDTO is the public shape of a stored message.
type MessageResponseDTO struct {
	ID             string  `json:"id"`
	ConversationID string  `json:"conversation_id"`
	SenderID       string  `json:"sender_id"`
	SenderRole     string  `json:"sender_role"`
	OriginalText   *string `json:"original_text"`
	TranslatedText *string `json:"translated_text"`
	AudioURL       *string `json:"audio_url,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// SummaryResponseDTO is the public shape of an AI visit summary.
type SummaryResponseDTO struct {
	ID                    string   `json:"id"`
	ConversationID        string   `json:"conversation_id"`
	OverallSummary        string   `json:"overall_summary"`
	Symptoms              []string `json:"symptoms"`
	Diagnoses             []string `json:"diagnoses"`
	Medications           []string `json:"medications"`
	Allergies             []string `json:"allergies"`
	FollowUpActions       []string `json:"follow_up_actions"`
	PatientConcerns       []string `json:"patient_concerns"`
	DoctorRecommendations []string `json:"doctor_recommendations"`
	CreatedAt             string   `json:"created_at"`
}

// SuccessResponse represents a successful API response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// Mapping Functions

// UserFromDomain maps a domain.User to UserResponseDTO for public API responses.
func UserFromDomain(user domain.User) UserResponseDTO {
	return UserResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// ConversationFromDomain maps a domain.Conversation to its response shape.
func ConversationFromDomain(c domain.Conversation) ConversationResponseDTO {
	return ConversationResponseDTO{
		ID:              c.ID,
		CreatorID:       c.CreatorID,
		Title:           c.Title,
		DoctorLanguage:  c.DoctorLanguage,
		PatientLanguage: c.PatientLanguage,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}

// ConversationsFromDomain maps a slice of conversations.
func ConversationsFromDomain(convs []domain.Conversation) []ConversationResponseDTO {
	out := make([]ConversationResponseDTO, len(convs))
	for i, c := range convs {
		out[i] = ConversationFromDomain(c)
	}
	return out
}

// MessageFromDomain maps a domain.Message to its response shape.
func MessageFromDomain(m domain.Message) MessageResponseDTO {
	return MessageResponseDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		SenderRole:     string(m.SenderRole),
		OriginalText:   m.OriginalText,
		TranslatedText: m.TranslatedText,
		AudioURL:       m.AudioURL,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}

// MessagesFromDomain maps a slice of messages.
func MessagesFromDomain(msgs []domain.Message) []MessageResponseDTO {
	out := make([]MessageResponseDTO, len(msgs))
	for i, m := range msgs {
		out[i] = MessageFromDomain(m)
	}
	return out
}

// SummaryFromDomain maps a domain.Summary to its response shape. Nil list
// fields come back as empty slices so clients never see null.
func SummaryFromDomain(s domain.Summary) SummaryResponseDTO {
	return SummaryResponseDTO{
		ID:                    s.ID,
		ConversationID:        s.ConversationID,
		OverallSummary:        s.OverallSummary,
		Symptoms:              orEmpty(s.Symptoms),
		Diagnoses:             orEmpty(s.Diagnoses),
		Medications:           orEmpty(s.Medications),
		Allergies:             orEmpty(s.Allergies),
		FollowUpActions:       orEmpty(s.FollowUpActions),
		PatientConcerns:       orEmpty(s.PatientConcerns),
		DoctorRecommendations: orEmpty(s.DoctorRecommendations),
		CreatedAt:             s.CreatedAt.Format(time.RFC3339),
	}
}

func orEmpty(l domain.StringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}

// CreateSuccessResponse creates a standard success response
func CreateSuccessResponse(data interface{}, message string) SuccessResponse {
	return SuccessResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// CreateErrorResponse creates a standard error response
func CreateErrorResponse(error string, details []string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   error,
		Details: details,
	}
}
