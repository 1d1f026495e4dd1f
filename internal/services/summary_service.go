// File: internal/services/summary_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kenaine/healthcare-translation/internal/domain"
	"github.com/Kenaine/healthcare-translation/internal/repository/summary"
	"github.com/Kenaine/healthcare-translation/internal/services/gemini"
)

// summaryExtraction is the JSON contract the model is asked to honor.
// Every list field may be missing or null in the raw reply; only
// overall_summary is mandatory.
type summaryExtraction struct {
	OverallSummary        string   `json:"overall_summary"`
	Symptoms              []string `json:"symptoms"`
	Diagnoses             []string `json:"diagnoses"`
	Medications           []string `json:"medications"`
	Allergies             []string `json:"allergies"`
	FollowUpActions       []string `json:"follow_up_actions"`
	PatientConcerns       []string `json:"patient_concerns"`
	DoctorRecommendations []string `json:"doctor_recommendations"`
}

// SummaryService generates structured visit summaries from a full
// conversation transcript. Unlike translation there is no safe fallback
// for a medical summary, so exhausted retries surface as an error.
type SummaryService struct {
	provider    gemini.Provider
	summaryRepo summary.SummaryRepository
	retry       gemini.RetryConfig
	logger      Logger
}

func NewSummaryService(provider gemini.Provider, summaryRepo summary.SummaryRepository, config *gemini.Config, logger Logger) *SummaryService {
	return &SummaryService{
		provider:    provider,
		summaryRepo: summaryRepo,
		retry: gemini.RetryConfig{
			MaxRetries: config.SummaryRetries,
			BaseDelay:  config.RetryBaseDelay,
		},
		logger: logger,
	}
}

// Generate runs the extraction over the transcript and persists the
// result. Multiple summaries per conversation are kept as history.
func (s *SummaryService) Generate(ctx context.Context, conversationID string, transcript []domain.Message) (*domain.Summary, error) {
	if len(transcript) == 0 {
		return nil, &gemini.GeminiError{
			Type:      gemini.ErrTypeValidation,
			Operation: "summarize",
			Message:   "cannot summarize an empty conversation",
		}
	}

	prompt := buildSummaryPrompt(transcript)

	var extraction summaryExtraction
	err := gemini.RetryWithBackoff(ctx, s.retry, s.logger, "summarize", func(ctx context.Context) error {
		raw, err := s.provider.GenerateContent(ctx, prompt)
		if err != nil {
			return err
		}
		parsed, err := parseSummaryResponse(raw)
		if err != nil {
			return err
		}
		extraction = parsed
		return nil
	})
	if err != nil {
		s.logger.Error("summary generation failed",
			"conversation_id", conversationID, "error", err)
		return nil, fmt.Errorf("failed to generate medical summary: %w", err)
	}

	record := &domain.Summary{
		ID:                    uuid.NewString(),
		ConversationID:        conversationID,
		OverallSummary:        extraction.OverallSummary,
		Symptoms:              extraction.Symptoms,
		Diagnoses:             extraction.Diagnoses,
		Medications:           extraction.Medications,
		Allergies:             extraction.Allergies,
		FollowUpActions:       extraction.FollowUpActions,
		PatientConcerns:       extraction.PatientConcerns,
		DoctorRecommendations: extraction.DoctorRecommendations,
		CreatedAt:             time.Now().UTC(),
	}

	saved, err := s.summaryRepo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	s.logger.Info("summary generated",
		"conversation_id", conversationID, "summary_id", saved.ID,
		"message_count", len(transcript))
	return saved, nil
}

// Latest returns the most recent summary for a conversation.
func (s *SummaryService) Latest(ctx context.Context, conversationID string) (*domain.Summary, error) {
	return s.summaryRepo.FindLatestByConversationID(ctx, conversationID)
}

// buildSummaryPrompt renders the transcript as alternating Doctor:/
// Patient: lines and wraps it in the extraction instructions. Audio-only
// messages carry no text and are skipped.
func buildSummaryPrompt(transcript []domain.Message) string {
	var lines []string
	for _, msg := range transcript {
		text := msg.DisplayText()
		if text == "" {
			continue
		}
		role := "Patient"
		if msg.SenderRole == domain.RoleDoctor {
			role = "Doctor"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, text))
	}

	return fmt.Sprintf(`You are a medical assistant analyzing a doctor-patient consultation. Read the following conversation and extract key medical information.

CONVERSATION:
%s

Please provide a comprehensive medical summary in the following JSON format:
{
  "overall_summary": "A brief 2-3 sentence summary of the entire consultation",
  "symptoms": ["list", "of", "symptoms", "mentioned"],
  "diagnoses": ["list", "of", "diagnoses", "or", "suspected", "conditions"],
  "medications": ["list", "of", "medications", "prescribed", "or", "discussed"],
  "allergies": ["list", "of", "allergies", "mentioned"],
  "follow_up_actions": ["list", "of", "follow-up", "tasks", "or", "appointments"],
  "patient_concerns": ["list", "of", "patient", "concerns", "or", "questions"],
  "doctor_recommendations": ["list", "of", "doctor", "advice", "or", "recommendations"]
}

IMPORTANT INSTRUCTIONS:
- Use empty arrays [] for categories with no information
- Be concise and accurate
- Use medical terminology when appropriate
- Include only information explicitly mentioned in the conversation
- Do not make assumptions or add information not in the conversation
- Return ONLY valid JSON, no additional text

JSON SUMMARY:`, strings.Join(lines, "\n"))
}

// parseSummaryResponse decodes the model's raw text into the extraction
// contract. Markdown code fences are tolerated; a missing or empty
// overall_summary is a parse failure so the retry wrapper tries again.
// Missing list fields are backfilled with empty slices.
func parseSummaryResponse(raw string) (summaryExtraction, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var extraction summaryExtraction
	if err := json.Unmarshal([]byte(cleaned), &extraction); err != nil {
		return summaryExtraction{}, gemini.NewParseError("summarize", "model returned invalid JSON", err)
	}

	if strings.TrimSpace(extraction.OverallSummary) == "" {
		return summaryExtraction{}, gemini.NewParseError("summarize", "summary is missing overall_summary", nil)
	}

	for _, list := range []*[]string{
		&extraction.Symptoms,
		&extraction.Diagnoses,
		&extraction.Medications,
		&extraction.Allergies,
		&extraction.FollowUpActions,
		&extraction.PatientConcerns,
		&extraction.DoctorRecommendations,
	} {
		if *list == nil {
			*list = []string{}
		}
	}

	return extraction, nil
}
