// File: cmd/diagnostic/gemini_diagnostic.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Kenaine/healthcare-translation/internal/services"
	"github.com/Kenaine/healthcare-translation/internal/services/gemini"
)

// Quick end-to-end check of the generative-language credentials:
// resolves the provider from the environment and runs one translation.
func main() {
	fmt.Println("Testing Gemini connectivity...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY not set in environment")
	}

	config := gemini.DefaultConfig()
	config.APIKey = apiKey
	if base := os.Getenv("GEMINI_BASE_URL"); base != "" {
		config.BaseURL = base
	}
	if model := os.Getenv("GEMINI_MODEL_NAME"); model != "" {
		config.Model = model
	}

	provider := gemini.NewOpenAIProvider(config)
	status := provider.GetStatus(context.Background())
	fmt.Printf("Provider status: configured=%v healthy=%v (%s)\n",
		status.Configured, status.IsHealthy, status.Message)

	translator := services.NewTranslationService(provider, config, services.NewLogger("diagnostic"))
	out, err := translator.Translate(context.Background(), "The patient reports mild chest pain.", "en", "es")
	if err != nil {
		log.Fatalf("Translation failed: %v", err)
	}
	fmt.Printf("Translation: %s\n", out)
}
