// File: internal/handlers/summary_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Kenaine/healthcare-translation/internal/dtos"
	"github.com/Kenaine/healthcare-translation/internal/services"
	"github.com/Kenaine/healthcare-translation/internal/services/gemini"
)

type SummaryHandler struct {
	ConversationService *services.ConversationService
	SummaryService      *services.SummaryService
}

func NewSummaryHandler(cs *services.ConversationService, ss *services.SummaryService) *SummaryHandler {
	return &SummaryHandler{ConversationService: cs, SummaryService: ss}
}

// Generate produces a structured visit summary from the conversation
// transcript and stores it. Each call creates a fresh summary row so
// earlier summaries stay available as history.
func (h *SummaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID := mux.Vars(r)["id"]
	transcript, err := h.ConversationService.Transcript(r.Context(), conversationID, caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	summary, err := h.SummaryService.Generate(r.Context(), conversationID, transcript)
	if err != nil {
		var gerr *gemini.GeminiError
		if errors.As(err, &gerr) {
			switch gerr.Type {
			case gemini.ErrTypeValidation:
				writeError(w, gerr.Message, http.StatusBadRequest)
			case gemini.ErrTypeConfig:
				writeError(w, "Summary generation is not configured", http.StatusServiceUnavailable)
			case gemini.ErrTypeRateLimit:
				writeError(w, "Summary service is busy, try again shortly", http.StatusTooManyRequests)
			default:
				writeError(w, "Could not generate summary", http.StatusBadGateway)
			}
			return
		}
		writeError(w, "Could not generate summary", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.SummaryFromDomain(*summary))
}

// Latest returns the most recent stored summary for a conversation.
func (h *SummaryHandler) Latest(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conversationID := mux.Vars(r)["id"]
	if _, _, err := h.ConversationService.Get(r.Context(), conversationID, caller); err != nil {
		writeServiceError(w, err)
		return
	}

	summary, err := h.SummaryService.Latest(r.Context(), conversationID)
	if err != nil {
		writeError(w, "No summary found for this conversation", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, dtos.SummaryFromDomain(*summary))
}
