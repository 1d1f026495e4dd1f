// File: internal/realtime/hub.go

// Package realtime provides the in-process push-subscription channel
// for message inserts, keyed by conversation. It is the push half of
// the push/poll delivery pair; the poll endpoint remains authoritative
// when a subscriber misses events.
package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

// subscriberBuffer bounds each subscriber channel. A subscriber that
// stops draining loses pushes rather than blocking the sender; the
// polling fallback repairs the gap.
const subscriberBuffer = 16

// Subscription is one subscriber's view of a conversation's insert
// stream. It satisfies the reconciler's PushSource.
type Subscription struct {
	id        string
	hub       *Hub
	convID    string
	events    chan domain.Message
	confirmed chan struct{}
	closeOnce sync.Once
}

func (s *Subscription) Events() <-chan domain.Message { return s.events }

// Confirmed fires once the subscription is registered with the hub.
func (s *Subscription) Confirmed() <-chan struct{} { return s.confirmed }

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.hub.unsubscribe(s.convID, s.id)
		close(s.events)
	})
}

// Hub fans message inserts out to conversation subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscription
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[string]*Subscription),
	}
}

// Subscribe registers for inserts on one conversation. The returned
// subscription is confirmed immediately; the signature still models
// confirmation as an event so callers treat it as asynchronous.
func (h *Hub) Subscribe(conversationID string) *Subscription {
	sub := &Subscription{
		id:        uuid.NewString(),
		hub:       h,
		convID:    conversationID,
		events:    make(chan domain.Message, subscriberBuffer),
		confirmed: make(chan struct{}, 1),
	}

	h.mu.Lock()
	if h.subscribers[conversationID] == nil {
		h.subscribers[conversationID] = make(map[string]*Subscription)
	}
	h.subscribers[conversationID][sub.id] = sub
	h.mu.Unlock()

	sub.confirmed <- struct{}{}
	return sub
}

// PublishMessage delivers a freshly persisted message to every
// subscriber of its conversation. Non-blocking: a full subscriber
// buffer drops the push for that subscriber.
func (h *Hub) PublishMessage(conversationID string, msg domain.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers[conversationID] {
		select {
		case sub.events <- msg:
		default:
		}
	}
}

// SubscriberCount reports the active subscribers of a conversation.
func (h *Hub) SubscriberCount(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[conversationID])
}

func (h *Hub) unsubscribe(conversationID, subID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subscribers[conversationID]
	delete(subs, subID)
	if len(subs) == 0 {
		delete(h.subscribers, conversationID)
	}
}
