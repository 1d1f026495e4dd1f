// File: internal/services/gemini/interface.go
package gemini

import "context"

// ProviderStatus represents generative-language provider health.
type ProviderStatus struct {
	IsHealthy  bool
	Configured bool
	Message    string
}

// CompletionProvider handles single-shot text generation. The provider
// is treated as untyped text in, text out; prompt construction and
// response parsing live with the callers.
type CompletionProvider interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	HealthCheck(ctx context.Context) error
}

// Provider combines generation with status reporting.
type Provider interface {
	CompletionProvider
	GetStatus(ctx context.Context) ProviderStatus
}
