// File: internal/domain/summary.go
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList stores a JSON-encoded list of strings in a single text
// column. SQLite has no native array type, so categorized summary
// fields are serialized on write and decoded on read.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("unsupported type for StringList")
	}
}

// Summary holds one AI-generated extraction over a conversation
// transcript. Multiple summaries may exist per conversation; the most
// recent one is the current view.
type Summary struct {
	ID                    string     `json:"id" gorm:"primaryKey;size:36"`
	ConversationID        string     `json:"conversation_id" gorm:"not null;index;size:36"`
	OverallSummary        string     `json:"overall_summary" gorm:"not null;type:text"`
	Symptoms              StringList `json:"symptoms" gorm:"type:text"`
	Diagnoses             StringList `json:"diagnoses" gorm:"type:text"`
	Medications           StringList `json:"medications" gorm:"type:text"`
	Allergies             StringList `json:"allergies" gorm:"type:text"`
	FollowUpActions       StringList `json:"follow_up_actions" gorm:"type:text"`
	PatientConcerns       StringList `json:"patient_concerns" gorm:"type:text"`
	DoctorRecommendations StringList `json:"doctor_recommendations" gorm:"type:text"`
	CreatedAt             time.Time  `json:"created_at" gorm:"index"`
}
