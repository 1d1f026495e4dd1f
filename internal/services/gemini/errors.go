// File: internal/services/gemini/errors.go
package gemini

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeRateLimit  ErrorType = "RATE_LIMIT"
	ErrTypeParse      ErrorType = "PARSE"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type GeminiError struct {
	Type      ErrorType
	Operation string
	Message   string
	Cause     error
}

func (e *GeminiError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Gemini %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Gemini %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *GeminiError) Unwrap() error { return e.Cause }

func NewConfigError(msg string) *GeminiError {
	return &GeminiError{Type: ErrTypeConfig, Operation: "config", Message: msg}
}

func NewProviderError(operation, msg string, cause error) *GeminiError {
	return &GeminiError{Type: ErrTypeProvider, Operation: operation, Message: msg, Cause: cause}
}

func NewParseError(operation, msg string, cause error) *GeminiError {
	return &GeminiError{Type: ErrTypeParse, Operation: operation, Message: msg, Cause: cause}
}

// IsRetryable reports whether an error is worth another attempt.
// Configuration and validation problems never fix themselves with a
// retry; everything else (network, provider, rate limit, malformed
// response) is treated as transient.
func IsRetryable(err error) bool {
	var gerr *GeminiError
	if errors.As(err, &gerr) {
		return gerr.Type != ErrTypeConfig && gerr.Type != ErrTypeValidation
	}
	return true
}
