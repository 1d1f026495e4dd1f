// File: internal/services/translation_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kenaine/healthcare-translation/internal/services/gemini"
)

type providerReply struct {
	text string
	err  error
}

type mockProvider struct {
	replies    []providerReply
	calls      int
	prompts    []string
	configured bool
}

func (m *mockProvider) GenerateContent(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	idx := m.calls
	if idx >= len(m.replies) {
		idx = len(m.replies) - 1
	}
	m.calls++
	if len(m.replies) == 0 {
		return "", gemini.NewProviderError("generate", "no reply configured", nil)
	}
	return m.replies[idx].text, m.replies[idx].err
}

func (m *mockProvider) HealthCheck(_ context.Context) error { return nil }

func (m *mockProvider) GetStatus(_ context.Context) gemini.ProviderStatus {
	return gemini.ProviderStatus{IsHealthy: m.configured, Configured: m.configured}
}

func testGeminiConfig() *gemini.Config {
	cfg := gemini.DefaultConfig()
	cfg.APIKey = "test-key"
	cfg.RetryBaseDelay = time.Millisecond
	return cfg
}

func newTestTranslator(p *mockProvider) *TranslationService {
	return NewTranslationService(p, testGeminiConfig(), &NoOpLogger{})
}

func TestTranslateSameLanguageSkipsProvider(t *testing.T) {
	provider := &mockProvider{configured: true}
	svc := newTestTranslator(provider)

	out, err := svc.Translate(context.Background(), "Hello", "en", "en")
	require.NoError(t, err)
	require.Equal(t, "Hello", out)
	require.Zero(t, provider.calls)
}

func TestTranslateUnconfiguredReturnsOriginal(t *testing.T) {
	provider := &mockProvider{configured: false}
	svc := newTestTranslator(provider)

	out, err := svc.Translate(context.Background(), "Hola", "es", "en")
	require.Error(t, err)
	require.Equal(t, "Hola", out)
	require.Zero(t, provider.calls)
}

func TestTranslateStripsEnclosingQuotes(t *testing.T) {
	provider := &mockProvider{configured: true, replies: []providerReply{{text: `"Hola mundo"`}}}
	svc := newTestTranslator(provider)

	out, err := svc.Translate(context.Background(), "Hello world", "en", "es")
	require.NoError(t, err)
	require.Equal(t, "Hola mundo", out)
}

func TestTranslateKeepsInteriorQuotes(t *testing.T) {
	provider := &mockProvider{configured: true, replies: []providerReply{{text: `El doctor dijo "descanse"`}}}
	svc := newTestTranslator(provider)

	out, err := svc.Translate(context.Background(), `The doctor said "rest"`, "en", "es")
	require.NoError(t, err)
	require.Equal(t, `El doctor dijo "descanse"`, out)
}

func TestTranslateRetriesThenSucceeds(t *testing.T) {
	provider := &mockProvider{configured: true, replies: []providerReply{
		{err: gemini.NewProviderError("generate", "transient", nil)},
		{text: "Bonjour"},
	}}
	svc := newTestTranslator(provider)

	out, err := svc.Translate(context.Background(), "Hello", "en", "fr")
	require.NoError(t, err)
	require.Equal(t, "Bonjour", out)
	require.Equal(t, 2, provider.calls)
}

func TestTranslateFallsBackToOriginalAfterExhaustion(t *testing.T) {
	provider := &mockProvider{configured: true, replies: []providerReply{
		{err: gemini.NewProviderError("generate", "down", nil)},
	}}
	svc := newTestTranslator(provider)

	out, err := svc.Translate(context.Background(), "Chest pain for two days", "en", "es")
	require.Error(t, err)
	require.Equal(t, "Chest pain for two days", out)
	// Two retries on top of the initial attempt.
	require.Equal(t, 3, provider.calls)
}

func TestTranslateEmptyReplyRetries(t *testing.T) {
	provider := &mockProvider{configured: true, replies: []providerReply{
		{text: "   "},
		{text: "Hallo"},
	}}
	svc := newTestTranslator(provider)

	out, err := svc.Translate(context.Background(), "Hello", "en", "de")
	require.NoError(t, err)
	require.Equal(t, "Hallo", out)
	require.Equal(t, 2, provider.calls)
}

func TestTranslatePromptNamesLanguages(t *testing.T) {
	provider := &mockProvider{configured: true, replies: []providerReply{{text: "ok"}}}
	svc := newTestTranslator(provider)

	_, err := svc.Translate(context.Background(), "Take 5mg daily", "en", "es")
	require.NoError(t, err)
	require.Len(t, provider.prompts, 1)
	prompt := provider.prompts[0]
	require.Contains(t, prompt, "from English to Spanish")
	require.Contains(t, prompt, "Take 5mg daily")
	require.Contains(t, prompt, "medical translator")
}

func TestLanguageNameFallsBackToUppercase(t *testing.T) {
	require.Equal(t, "English", LanguageName("en"))
	require.Equal(t, "SW", LanguageName("sw"))
}
