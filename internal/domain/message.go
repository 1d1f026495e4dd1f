// File: internal/domain/message.go
package domain

import "time"

// Message represents a single message within a conversation. A message
// carries either a text pair (original plus best-effort translation) or
// an audio reference, never both. TranslatedText is written once at
// creation time and falls back to the original text when translation
// fails, so readers never see a half-delivered message.
type Message struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string    `json:"conversation_id" gorm:"not null;index;size:36"`
	SenderID       string    `json:"sender_id" gorm:"not null;size:36"`
	SenderRole     UserRole  `json:"sender_role" gorm:"not null;size:10"`
	OriginalText   *string   `json:"original_text"`
	TranslatedText *string   `json:"translated_text"`
	AudioURL       *string   `json:"audio_url"`
	CreatedAt      time.Time `json:"created_at" gorm:"index"`
}

// HasText reports whether the message carries a text payload.
func (m *Message) HasText() bool {
	return m.OriginalText != nil && *m.OriginalText != ""
}

// DisplayText returns the best available text for transcript rendering:
// the original if present, otherwise the translation.
func (m *Message) DisplayText() string {
	if m.OriginalText != nil && *m.OriginalText != "" {
		return *m.OriginalText
	}
	if m.TranslatedText != nil {
		return *m.TranslatedText
	}
	return ""
}
