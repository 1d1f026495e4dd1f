// File: internal/handlers/conversation_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/Kenaine/healthcare-translation/internal/domain"
	"github.com/Kenaine/healthcare-translation/internal/dtos"
	"github.com/Kenaine/healthcare-translation/internal/middleware"
	"github.com/Kenaine/healthcare-translation/internal/services"
	"github.com/Kenaine/healthcare-translation/internal/services/conversation"
	"github.com/Kenaine/healthcare-translation/internal/services/user_services"
)

type ConversationHandler struct {
	ConversationService *services.ConversationService
	UserService         *user_services.UserService
	GuestService        *user_services.GuestService
}

func NewConversationHandler(
	cs *services.ConversationService,
	us *user_services.UserService,
	gs *user_services.GuestService,
) *ConversationHandler {
	return &ConversationHandler{
		ConversationService: cs,
		UserService:         us,
		GuestService:        gs,
	}
}

// callerFromContext resolves the request identity set by the auth or
// guest middleware. Registered users win over guest sessions.
func callerFromContext(ctx context.Context) (services.Caller, bool) {
	if userID, ok := middleware.UserIDFromContext(ctx); ok {
		return services.Caller{ID: userID}, true
	}
	if sessionID, ok := middleware.GuestSessionFromContext(ctx); ok {
		return services.Caller{ID: sessionID, Guest: true}, true
	}
	return services.Caller{}, false
}

// Create starts a new consultation. Doctor accounts only.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.ConversationCreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not load account", http.StatusInternalServerError)
		return
	}

	conv, err := h.ConversationService.Create(r.Context(), user, req.Title, req.DoctorLanguage, req.PatientLanguage)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.ConversationFromDomain(*conv))
}

// List returns the caller's consultations, newest first.
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	convs, err := h.ConversationService.List(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve conversations", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ConversationsFromDomain(convs))
}

// Get returns a single consultation the caller participates in.
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conv, role, err := h.ConversationService.Get(r.Context(), mux.Vars(r)["id"], caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := struct {
		dtos.ConversationResponseDTO
		CallerRole string `json:"caller_role"`
	}{dtos.ConversationFromDomain(*conv), string(role)}
	writeJSON(w, http.StatusOK, resp)
}

// Join adds the authenticated user to a consultation. Joining twice is
// a no-op success.
func (h *ConversationHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.JoinRequestDTO
	if r.Body != nil {
		// Body is optional; a bare POST joins with the profile default.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	user, err := h.UserService.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not load account", http.StatusInternalServerError)
		return
	}

	if err := h.ConversationService.Join(r.Context(), mux.Vars(r)["id"], user, req.Language); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

// JoinAsGuest creates a 24 hour guest session for a share link and sets
// the guest cookie.
func (h *ConversationHandler) JoinAsGuest(w http.ResponseWriter, r *http.Request) {
	var req dtos.GuestJoinRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.DisplayName) == "" {
		writeError(w, "Display name is required", http.StatusBadRequest)
		return
	}

	session, err := h.GuestService.JoinAsGuest(r.Context(), mux.Vars(r)["id"], req.DisplayName)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			writeError(w, "Conversation not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not join as guest", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "guest_session",
		Value:    session.SessionID,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusCreated, map[string]string{
		"session_id":      session.SessionID,
		"conversation_id": session.ConversationID,
		"guest_name":      session.GuestName,
		"expires_at":      session.ExpiresAt.Format(time.RFC3339),
	})
}

// Delete removes a consultation and its messages. Creator only.
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.ConversationService.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage stores a new message, translating it for the other side.
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req dtos.SendMessageRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conversationID := mux.Vars(r)["id"]
	var (
		msg *domain.Message
		err error
	)
	if req.AudioURL != "" {
		msg, err = h.ConversationService.SendAudioMessage(r.Context(), conversationID, caller, req.AudioURL)
	} else {
		msg, err = h.ConversationService.SendMessage(r.Context(), conversationID, caller, req.Text)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dtos.MessageFromDomain(*msg))
}

// GetMessages returns the full ordered message list. Clients poll this
// endpoint when no push subscription is live.
func (h *ConversationHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	messages, err := h.ConversationService.GetMessages(r.Context(), mux.Vars(r)["id"], caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.MessagesFromDomain(messages))
}

// Participants lists who is in the consultation.
func (h *ConversationHandler) Participants(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	participants, err := h.ConversationService.Participants(r.Context(), mux.Vars(r)["id"], caller)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, participants)
}

// Search finds messages across the caller's consultations.
func (h *ConversationHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		writeError(w, "Search term is required", http.StatusBadRequest)
		return
	}

	messages, err := h.ConversationService.Search(r.Context(), userID, term, r.URL.Query().Get("conversation_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.MessagesFromDomain(messages))
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps typed conversation errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var convErr *conversation.ConversationError
	if errors.As(err, &convErr) {
		switch convErr.Type {
		case conversation.ErrTypeValidation:
			writeError(w, convErr.Message, http.StatusBadRequest)
		case conversation.ErrTypeUnauthorized:
			writeError(w, "You do not have access to this conversation", http.StatusForbidden)
		case conversation.ErrTypeNotFound:
			writeError(w, "Conversation not found", http.StatusNotFound)
		default:
			writeError(w, "Request failed", http.StatusInternalServerError)
		}
		return
	}
	writeError(w, "Request failed", http.StatusInternalServerError)
}
