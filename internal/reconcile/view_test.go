// File: internal/reconcile/view_test.go
package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

func strPtr(s string) *string { return &s }

func canonical(id, sender, text string) domain.Message {
	return domain.Message{
		ID:             id,
		ConversationID: "conv-1",
		SenderID:       sender,
		SenderRole:     domain.RolePatient,
		OriginalText:   strPtr(text),
		CreatedAt:      time.Now().UTC(),
	}
}

func ids(msgs []domain.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestNewViewSeedsLastSeen(t *testing.T) {
	v := NewView("conv-1", []domain.Message{canonical("a", "doc", "hi"), canonical("b", "pat", "hello")})
	require.Equal(t, "b", v.LastSeenID())
	require.Len(t, v.Messages(), 2)
	require.False(t, v.Subscribed())
}

func TestAppendOptimisticAddsTempEntry(t *testing.T) {
	v := NewView("conv-1", nil)
	tempID := v.AppendOptimistic("pat", domain.RolePatient, "I feel better")

	require.True(t, IsOptimistic(tempID))
	msgs := v.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, tempID, msgs[0].ID)
	require.Equal(t, "I feel better", *msgs[0].OriginalText)
	// Optimistic entries never advance the canonical cursor.
	require.Empty(t, v.LastSeenID())
}

func TestApplyAckReplacesOptimistic(t *testing.T) {
	v := NewView("conv-1", nil)
	tempID := v.AppendOptimistic("pat", domain.RolePatient, "hello")

	v.ApplyAck(tempID, canonical("srv-1", "pat", "hello"))

	require.Equal(t, []string{"srv-1"}, ids(v.Messages()))
	require.Equal(t, "srv-1", v.LastSeenID())
}

func TestAckAfterPushConvergesToOneEntry(t *testing.T) {
	v := NewView("conv-1", nil)
	tempID := v.AppendOptimistic("pat", domain.RolePatient, "hello")

	// Push beats the HTTP acknowledgement to the view.
	require.True(t, v.ApplyPush(canonical("srv-1", "pat", "hello")))
	v.ApplyAck(tempID, canonical("srv-1", "pat", "hello"))

	require.Equal(t, []string{"srv-1"}, ids(v.Messages()))
}

func TestPushAfterAckIsDiscarded(t *testing.T) {
	v := NewView("conv-1", nil)
	tempID := v.AppendOptimistic("pat", domain.RolePatient, "hello")

	v.ApplyAck(tempID, canonical("srv-1", "pat", "hello"))
	require.False(t, v.ApplyPush(canonical("srv-1", "pat", "hello")))

	require.Equal(t, []string{"srv-1"}, ids(v.Messages()))
}

func TestDiscardOptimisticOnSendFailure(t *testing.T) {
	v := NewView("conv-1", nil)
	tempID := v.AppendOptimistic("pat", domain.RolePatient, "hello")
	v.DiscardOptimistic(tempID)
	require.Empty(t, v.Messages())
}

func TestApplyPollNoChangeWhenTailMatches(t *testing.T) {
	initial := []domain.Message{canonical("a", "doc", "hi"), canonical("b", "pat", "hello")}
	v := NewView("conv-1", initial)

	require.False(t, v.ApplyPoll(initial))
	require.Equal(t, "b", v.LastSeenID())
}

func TestApplyPollReplacesList(t *testing.T) {
	v := NewView("conv-1", []domain.Message{canonical("a", "doc", "hi")})

	fetched := []domain.Message{
		canonical("a", "doc", "hi"),
		canonical("b", "pat", "hello"),
		canonical("c", "doc", "how are you"),
	}
	require.True(t, v.ApplyPoll(fetched))
	require.Equal(t, []string{"a", "b", "c"}, ids(v.Messages()))
	require.Equal(t, "c", v.LastSeenID())
}

func TestApplyPollKeepsPendingOptimistic(t *testing.T) {
	v := NewView("conv-1", []domain.Message{canonical("a", "doc", "hi")})
	tempID := v.AppendOptimistic("pat", domain.RolePatient, "still sending")

	// A poll carrying someone else's message fires mid-send.
	fetched := []domain.Message{
		canonical("a", "doc", "hi"),
		canonical("b", "doc", "any update?"),
	}
	require.True(t, v.ApplyPoll(fetched))
	require.Equal(t, []string{"a", "b", tempID}, ids(v.Messages()))
}

func TestApplyPollDropsConfirmedOptimistic(t *testing.T) {
	v := NewView("conv-1", []domain.Message{canonical("a", "doc", "hi")})
	v.AppendOptimistic("pat", domain.RolePatient, "hello")

	// The fetch already includes the canonical form of the send.
	fetched := []domain.Message{
		canonical("a", "doc", "hi"),
		canonical("srv-1", "pat", "hello"),
	}
	require.True(t, v.ApplyPoll(fetched))
	require.Equal(t, []string{"a", "srv-1"}, ids(v.Messages()))
}

func TestApplyPollEmptyFetchIsIgnored(t *testing.T) {
	v := NewView("conv-1", []domain.Message{canonical("a", "doc", "hi")})
	require.False(t, v.ApplyPoll(nil))
	require.Equal(t, []string{"a"}, ids(v.Messages()))
}

func TestSubscriptionStateTransitions(t *testing.T) {
	v := NewView("conv-1", nil)
	require.False(t, v.Subscribed())
	v.MarkSubscribed()
	require.True(t, v.Subscribed())
	v.MarkUnsubscribed()
	require.False(t, v.Subscribed())
}
