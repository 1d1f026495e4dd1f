// File: internal/domain/conversation.go
package domain

import "time"

// Conversation represents a single doctor-patient consultation thread.
// PatientLanguage starts as whatever the creating doctor picked and is
// corrected when a patient joins with their own language.
type Conversation struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	CreatorID       string    `json:"creator_id" gorm:"not null;index;size:36"`
	Title           string    `json:"title"`
	DoctorLanguage  string    `json:"doctor_language" gorm:"not null;size:10"`
	PatientLanguage string    `json:"patient_language" gorm:"not null;size:10"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ConversationParticipant links a user or a guest session to a
// conversation. Exactly one of UserID and GuestSessionID is set.
type ConversationParticipant struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string    `json:"conversation_id" gorm:"not null;index;size:36"`
	UserID         *string   `json:"user_id" gorm:"index;size:36"`
	GuestSessionID *string   `json:"guest_session_id" gorm:"index;size:36"`
	Role           UserRole  `json:"role" gorm:"not null;size:10"`
	JoinedAt       time.Time `json:"joined_at" gorm:"autoCreateTime"`
}
