// File: internal/reconcile/watcher.go
package reconcile

import (
	"context"
	"time"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

// DefaultPollInterval matches the 2-second cadence of the polling
// fallback.
const DefaultPollInterval = 2 * time.Second

// PushSource is a push-style subscription feeding a watcher. Confirmed
// fires once when the subscription is established; if it never fires
// the watcher simply keeps polling.
type PushSource interface {
	Events() <-chan domain.Message
	Confirmed() <-chan struct{}
	Close()
}

// PollSource fetches the full ordered message list for a conversation.
type PollSource interface {
	FetchMessages(ctx context.Context, conversationID string) ([]domain.Message, error)
}

// Logger is the minimal structured logger the watcher needs.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Watcher drives one conversation view from its two producers: the
// push subscription and the poll timer. It starts in polling-only mode
// and switches to subscribed once the push source confirms; duplicate
// notifications from the overlap are absorbed by the view's
// de-duplication. The poll timer keeps ticking while subscribed but its
// results are ignored, so a silently dead subscription costs nothing in
// correctness.
type Watcher struct {
	view         *View
	push         PushSource
	poll         PollSource
	pollInterval time.Duration
	onUpdate     func([]domain.Message)
	logger       Logger
}

func NewWatcher(view *View, push PushSource, poll PollSource, pollInterval time.Duration, onUpdate func([]domain.Message), logger Logger) *Watcher {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &Watcher{
		view:         view,
		push:         push,
		poll:         poll,
		pollInterval: pollInterval,
		onUpdate:     onUpdate,
		logger:       logger,
	}
}

// Run blocks until ctx is canceled, reconciling events as they arrive.
// The poll ticker and the push subscription are released unconditionally
// on exit.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	defer w.push.Close()

	// Channels are nilled out once spent so a fired confirmation or a
	// closed event stream cannot spin the select loop.
	confirmed := w.push.Confirmed()
	events := w.push.Events()

	for {
		select {
		case <-ctx.Done():
			return

		case <-confirmed:
			confirmed = nil
			w.view.MarkSubscribed()
			w.logger.Debug("push subscription active, polling results ignored",
				"conversation_id", w.view.ConversationID())

		case msg, ok := <-events:
			if !ok {
				// Subscription dropped: fall back to polling silently.
				events = nil
				w.view.MarkUnsubscribed()
				continue
			}
			if w.view.ApplyPush(msg) {
				w.notify()
			}

		case <-ticker.C:
			if w.view.Subscribed() {
				continue
			}
			fetched, err := w.poll.FetchMessages(ctx, w.view.ConversationID())
			if err != nil {
				w.logger.Warn("poll fetch failed",
					"conversation_id", w.view.ConversationID(), "error", err)
				continue
			}
			if w.view.ApplyPoll(fetched) {
				w.notify()
			}
		}
	}
}

func (w *Watcher) notify() {
	if w.onUpdate != nil {
		w.onUpdate(w.view.Messages())
	}
}
