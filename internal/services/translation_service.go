// File: internal/services/translation_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kenaine/healthcare-translation/internal/services/gemini"
)

// languageNames maps ISO-639-1 codes to human-readable names for the
// prompt. Unknown codes fall back to the uppercased code itself.
var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
	"ar": "Arabic",
	"hi": "Hindi",
	"tr": "Turkish",
	"pl": "Polish",
	"nl": "Dutch",
}

// TranslationService translates consultation messages between the
// doctor's and the patient's languages. Failures never block message
// delivery: the caller always gets usable text back, falling back to
// the original when translation is impossible.
type TranslationService struct {
	provider gemini.Provider
	retry    gemini.RetryConfig
	logger   Logger
}

func NewTranslationService(provider gemini.Provider, config *gemini.Config, logger Logger) *TranslationService {
	return &TranslationService{
		provider: provider,
		retry: gemini.RetryConfig{
			MaxRetries: config.TranslationRetries,
			BaseDelay:  config.RetryBaseDelay,
		},
		logger: logger,
	}
}

// LanguageName resolves a language code for prompt use.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return strings.ToUpper(code)
}

// Translate converts text from sourceLang to targetLang. The returned
// string is always displayable: on any failure it is the original text
// and the error describes why translation was skipped or failed.
func (s *TranslationService) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	// Same language means nothing to do and no external call.
	if sourceLang == targetLang {
		return text, nil
	}

	if status := s.provider.GetStatus(ctx); !status.Configured {
		s.logger.Warn("translation skipped, provider not configured",
			"source", sourceLang, "target", targetLang)
		return text, gemini.NewConfigError("translation service not configured")
	}

	prompt := buildTranslationPrompt(text, sourceLang, targetLang)

	var translation string
	err := gemini.RetryWithBackoff(ctx, s.retry, s.logger, "translate", func(ctx context.Context) error {
		raw, err := s.provider.GenerateContent(ctx, prompt)
		if err != nil {
			return err
		}
		cleaned := stripEnclosingQuotes(strings.TrimSpace(raw))
		if cleaned == "" {
			return gemini.NewParseError("translate", "model returned empty translation", nil)
		}
		translation = cleaned
		return nil
	})
	if err != nil {
		s.logger.Error("translation failed, delivering original text",
			"source", sourceLang, "target", targetLang, "error", err)
		return text, err
	}

	s.logger.Debug("translation completed",
		"source", sourceLang, "target", targetLang,
		"original_length", len(text), "translated_length", len(translation))
	return translation, nil
}

func buildTranslationPrompt(text, sourceLang, targetLang string) string {
	return fmt.Sprintf(`You are a professional medical translator. Translate the following text from %s to %s.

IMPORTANT GUIDELINES:
- Preserve medical terminology accuracy
- Maintain the original tone and urgency
- Keep numbers, measurements, and dosages exactly as provided
- Translate common symptoms and conditions using standard medical terms
- If unsure about medical terms, keep them in the original language
- Provide ONLY the translation, no explanations or notes

Text to translate:
"%s"

Translation:`, LanguageName(sourceLang), LanguageName(targetLang), text)
}

// stripEnclosingQuotes removes one layer of quotation marks the model
// sometimes wraps around its answer.
func stripEnclosingQuotes(s string) string {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}
