// File: internal/domain/guest_session.go
package domain

import "time"

// GuestSession lets a patient join a consultation through a share link
// without creating an account. Sessions are scoped to one conversation
// and expire after 24 hours.
type GuestSession struct {
	SessionID      string    `json:"session_id" gorm:"primaryKey;size:36"`
	GuestName      string    `json:"guest_name" gorm:"not null"`
	ConversationID string    `json:"conversation_id" gorm:"not null;index;size:36"`
	ExpiresAt      time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsValid reports whether the session can still be used.
func (g *GuestSession) IsValid() bool {
	return time.Now().Before(g.ExpiresAt)
}
