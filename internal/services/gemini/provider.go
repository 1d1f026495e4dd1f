// File: internal/services/gemini/provider.go
package gemini

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider talks to the Gemini API through its OpenAI-compatible
// chat completions endpoint.
type OpenAIProvider struct {
	config *Config
	client *openai.Client
}

func NewOpenAIProvider(config *Config) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &OpenAIProvider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

func (p *OpenAIProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if !p.config.IsConfigured() {
		return "", NewConfigError("GEMINI_API_KEY is not set")
	}

	resp, err := p.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: p.config.Model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: p.config.Temperature,
			TopP:        p.config.TopP,
			MaxTokens:   p.config.MaxOutputTokens,
		},
	)
	if err != nil {
		return "", classifyCallError("generate_content", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &GeminiError{
			Type:      ErrTypeProvider,
			Operation: "generate_content",
			Message:   "empty completion response",
		}
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) error {
	if !p.config.IsConfigured() {
		return NewConfigError("GEMINI_API_KEY is not set")
	}
	return nil
}

func (p *OpenAIProvider) GetStatus(ctx context.Context) ProviderStatus {
	if !p.config.IsConfigured() {
		return ProviderStatus{
			IsHealthy:  false,
			Configured: false,
			Message:    "Gemini provider not configured; translation runs in passthrough mode",
		}
	}
	return ProviderStatus{
		IsHealthy:  true,
		Configured: true,
		Message:    "Gemini provider healthy",
	}
}

// classifyCallError maps transport failures onto the local taxonomy so
// the retry wrapper can tell rate limits apart from hard errors.
func classifyCallError(operation string, err error) *GeminiError {
	var e *openai.APIError
	if errors.As(err, &e) {
		switch {
		case e.HTTPStatusCode == 429:
			return &GeminiError{Type: ErrTypeRateLimit, Operation: operation, Message: "rate limited", Cause: err}
		case e.HTTPStatusCode == 401 || e.HTTPStatusCode == 403:
			return &GeminiError{Type: ErrTypeConfig, Operation: operation, Message: "credential rejected", Cause: err}
		default:
			return NewProviderError(operation, "completion request failed", err)
		}
	}
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return &GeminiError{Type: ErrTypeNetwork, Operation: operation, Message: "request timed out", Cause: err}
	}
	return &GeminiError{Type: ErrTypeNetwork, Operation: operation, Message: "request failed", Cause: err}
}
