// File: internal/reconcile/view.go

// Package reconcile merges the three message sources a conversation
// view consumes - optimistic local echo, push delivery, and periodic
// polling - into one de-duplicated, ordered message list. Ordering is
// creation-timestamp ascending as returned by the authoritative fetch;
// optimistic entries sit at the tail until superseded.
package reconcile

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

const optimisticPrefix = "temp-"

// IsOptimistic reports whether a message ID is a locally generated
// placeholder rather than a server-assigned identifier.
func IsOptimistic(id string) bool {
	return strings.HasPrefix(id, optimisticPrefix)
}

// View holds the reconciled message list for one open conversation.
// All mutable subscription state (subscribed flag, last-seen ID) lives
// here per view, so multiple simultaneous views stay independent.
type View struct {
	mu             sync.Mutex
	conversationID string
	messages       []domain.Message
	lastSeenID     string
	subscribed     bool
}

// NewView seeds a view with the initial authoritative message list.
func NewView(conversationID string, initial []domain.Message) *View {
	v := &View{
		conversationID: conversationID,
		messages:       append([]domain.Message(nil), initial...),
	}
	if len(initial) > 0 {
		v.lastSeenID = initial[len(initial)-1].ID
	}
	return v
}

func (v *View) ConversationID() string { return v.conversationID }

// Messages returns a snapshot of the current visible list.
func (v *View) Messages() []domain.Message {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Message(nil), v.messages...)
}

// LastSeenID returns the identifier of the newest canonical message the
// view has observed.
func (v *View) LastSeenID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeenID
}

func (v *View) Subscribed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.subscribed
}

// MarkSubscribed records a confirmed push subscription; poll results
// are ignored from here on.
func (v *View) MarkSubscribed() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.subscribed = true
}

// MarkUnsubscribed drops back to the polling path.
func (v *View) MarkUnsubscribed() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.subscribed = false
}

// AppendOptimistic adds a local echo for a just-sent message before any
// network round-trip completes, returning its temporary identifier.
func (v *View) AppendOptimistic(senderID string, role domain.UserRole, text string) string {
	v.mu.Lock()
	defer v.mu.Unlock()

	tempID := optimisticPrefix + uuid.NewString()
	v.messages = append(v.messages, domain.Message{
		ID:             tempID,
		ConversationID: v.conversationID,
		SenderID:       senderID,
		SenderRole:     role,
		OriginalText:   &text,
		CreatedAt:      time.Now().UTC(),
	})
	return tempID
}

// DiscardOptimistic removes a pending local echo, used when the send
// itself fails.
func (v *View) DiscardOptimistic(tempID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.removeLocked(tempID)
}

// ApplyAck reconciles the server acknowledgement of a send. The
// optimistic entry is always removed; the canonical record is inserted
// only if push or poll has not delivered it already. Either arrival
// order converges to exactly one visible entry.
func (v *View) ApplyAck(tempID string, canonical domain.Message) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.removeLocked(tempID)
	if v.containsLocked(canonical.ID) {
		return
	}
	v.messages = append(v.messages, canonical)
	v.lastSeenID = canonical.ID
}

// ApplyPush merges a push-delivered record. Records already visible are
// discarded, making delivery idempotent.
func (v *View) ApplyPush(canonical domain.Message) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.containsLocked(canonical.ID) {
		return false
	}
	v.messages = append(v.messages, canonical)
	v.lastSeenID = canonical.ID
	return true
}

// ApplyPoll reconciles a full authoritative fetch. If the tail ID
// matches the last seen one nothing changes; otherwise the whole view
// is replaced with the fetched list. Any optimistic entry whose text
// has not shown up in the fetch yet is re-appended so a poll firing
// mid-send cannot make the local echo vanish.
func (v *View) ApplyPoll(fetched []domain.Message) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(fetched) == 0 {
		return false
	}
	tail := fetched[len(fetched)-1]
	if tail.ID == v.lastSeenID {
		return false
	}

	var pending []domain.Message
	for _, msg := range v.messages {
		if IsOptimistic(msg.ID) && !fetchedContains(fetched, msg) {
			pending = append(pending, msg)
		}
	}

	v.messages = append(append([]domain.Message(nil), fetched...), pending...)
	v.lastSeenID = tail.ID
	return true
}

func (v *View) removeLocked(id string) {
	for i, msg := range v.messages {
		if msg.ID == id {
			v.messages = append(v.messages[:i], v.messages[i+1:]...)
			return
		}
	}
}

func (v *View) containsLocked(id string) bool {
	for _, msg := range v.messages {
		if msg.ID == id {
			return true
		}
	}
	return false
}

// fetchedContains matches an optimistic entry against canonical records
// by sender and original text, the only fields both sides share.
func fetchedContains(fetched []domain.Message, optimistic domain.Message) bool {
	for _, msg := range fetched {
		if msg.SenderID == optimistic.SenderID &&
			msg.OriginalText != nil && optimistic.OriginalText != nil &&
			*msg.OriginalText == *optimistic.OriginalText {
			return true
		}
	}
	return false
}
