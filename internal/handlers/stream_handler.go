// File: internal/handlers/stream_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Kenaine/healthcare-translation/internal/dtos"
	"github.com/Kenaine/healthcare-translation/internal/realtime"
	"github.com/Kenaine/healthcare-translation/internal/services"
)

const heartbeatInterval = 15 * time.Second

// StreamHandler serves live message delivery over SSE. A connected
// stream is the push channel; clients fall back to polling GetMessages
// when the stream drops.
type StreamHandler struct {
	ConversationService *services.ConversationService
	Hub                 *realtime.Hub
}

func NewStreamHandler(cs *services.ConversationService, hub *realtime.Hub) *StreamHandler {
	return &StreamHandler{ConversationService: cs, Hub: hub}
}

// Stream subscribes the caller to new messages in a conversation.
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
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

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sub := h.Hub.Subscribe(conversationID)
	defer sub.Close()

	// Tell the client the push channel is live so it can stop polling.
	fmt.Fprintf(w, "event: subscribed\ndata: {\"conversation_id\":%q}\n\n", conversationID)
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case msg, open := <-sub.Events():
			if !open {
				return
			}
			payload, err := json.Marshal(dtos.MessageFromDomain(msg))
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
