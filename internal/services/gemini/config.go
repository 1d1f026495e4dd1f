// File: internal/services/gemini/config.go
package gemini

import (
	"fmt"
	"time"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Generation parameters
	Temperature     float32
	TopP            float32
	MaxOutputTokens int

	// Retry behavior
	Timeout            time.Duration
	TranslationRetries int
	SummaryRetries     int
	RetryBaseDelay     time.Duration
}

func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model name is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.TranslationRetries < 0 || c.SummaryRetries < 0 {
		return fmt.Errorf("retry counts must not be negative")
	}
	return nil
}

// IsConfigured reports whether a credential is present. A missing key
// is not fatal for the process; translation degrades to passthrough.
func (c *Config) IsConfigured() bool {
	return c.APIKey != ""
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://generativelanguage.googleapis.com/v1beta/openai/",
		Model:              "gemini-2.5-flash",
		Temperature:        0.3,
		TopP:               0.95,
		MaxOutputTokens:    1024,
		Timeout:            30 * time.Second,
		TranslationRetries: 2,
		SummaryRetries:     3,
		RetryBaseDelay:     time.Second,
	}
}
