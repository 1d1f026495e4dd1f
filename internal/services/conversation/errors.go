// File: internal/services/conversation/errors.go
package conversation

import "fmt"

type ErrorType string

const (
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypeDatabase     ErrorType = "DATABASE"
	ErrTypeSummary      ErrorType = "SUMMARY"
)

type ConversationError struct {
	Type           ErrorType
	Operation      string
	Message        string
	ConversationID string
	Cause          error
}

func (e *ConversationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Conversation %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Conversation %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ConversationError) Unwrap() error { return e.Cause }

func NewValidationError(operation, msg string) *ConversationError {
	return &ConversationError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewDatabaseError(operation, msg string, cause error) *ConversationError {
	return &ConversationError{Type: ErrTypeDatabase, Operation: operation, Message: msg, Cause: cause}
}

func NewUnauthorizedError(conversationID string) *ConversationError {
	return &ConversationError{
		Type:           ErrTypeUnauthorized,
		Operation:      "authorization",
		Message:        "conversation not found or caller is not a participant",
		ConversationID: conversationID,
	}
}

func NewNotFoundError(conversationID string) *ConversationError {
	return &ConversationError{
		Type:           ErrTypeNotFound,
		Operation:      "lookup",
		Message:        "conversation not found",
		ConversationID: conversationID,
	}
}

// IsUnauthorized reports whether err is an authorization rejection.
func IsUnauthorized(err error) bool {
	cerr, ok := err.(*ConversationError)
	return ok && cerr.Type == ErrTypeUnauthorized
}

// IsNotFound reports whether err is a missing-conversation rejection.
func IsNotFound(err error) bool {
	cerr, ok := err.(*ConversationError)
	return ok && cerr.Type == ErrTypeNotFound
}
