// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	DatabasePath string
	JWTSecretKey string

	// Generative-language API. An empty key is tolerated: translation
	// degrades to passthrough and summaries report a config error, but
	// the process must never crash over it.
	GeminiAPIKey    string
	GeminiBaseURL   string
	GeminiModelName string

	Environment string
}

// Load reads configuration from environment variables or a .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "consultations.db"),
		JWTSecretKey:     getEnv("JWT_SECRET_KEY", ""),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", ""),
		GeminiModelName: getEnv("GEMINI_MODEL_NAME", "gemini-2.5-flash"),
		Environment:     env,
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set; messages will be delivered untranslated")
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
