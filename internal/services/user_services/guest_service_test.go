// File: internal/services/user_services/guest_service_test.go
package user_services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kenaine/healthcare-translation/internal/domain"
	convrepo "github.com/Kenaine/healthcare-translation/internal/repository/conversation"
	guestrepo "github.com/Kenaine/healthcare-translation/internal/repository/guest"
)

type memGuestRepo struct {
	sessions map[string]*domain.GuestSession
}

func newMemGuestRepo() *memGuestRepo {
	return &memGuestRepo{sessions: make(map[string]*domain.GuestSession)}
}

func (m *memGuestRepo) Create(_ context.Context, session *domain.GuestSession) (*domain.GuestSession, error) {
	m.sessions[session.SessionID] = session
	return session, nil
}

func (m *memGuestRepo) FindBySessionID(_ context.Context, sessionID string) (*domain.GuestSession, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, guestrepo.ErrGuestSessionNotFound
	}
	return s, nil
}

func (m *memGuestRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if !s.IsValid() {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type stubConvRepo struct {
	convrepo.ConversationRepository
	convs        map[string]bool
	participants []*domain.ConversationParticipant
}

func (s *stubConvRepo) FindByID(_ context.Context, id string) (*domain.Conversation, error) {
	if !s.convs[id] {
		return nil, convrepo.ErrConversationNotFound
	}
	return &domain.Conversation{ID: id}, nil
}

func (s *stubConvRepo) AddParticipant(_ context.Context, p *domain.ConversationParticipant) error {
	s.participants = append(s.participants, p)
	return nil
}

func newTestGuestService() (*GuestService, *memGuestRepo, *stubConvRepo) {
	guests := newMemGuestRepo()
	convs := &stubConvRepo{convs: map[string]bool{"conv-1": true}}
	return NewGuestService(guests, convs, nopLogger{}), guests, convs
}

func TestJoinAsGuestCreatesSessionAndParticipant(t *testing.T) {
	svc, guests, convs := newTestGuestService()

	session, err := svc.JoinAsGuest(context.Background(), "conv-1", "  Maria  ")
	require.NoError(t, err)
	require.Equal(t, "Maria", session.GuestName)
	require.Equal(t, "conv-1", session.ConversationID)
	require.True(t, session.IsValid())
	require.WithinDuration(t, time.Now().Add(24*time.Hour), session.ExpiresAt, time.Minute)

	require.Len(t, guests.sessions, 1)
	require.Len(t, convs.participants, 1)
	require.Equal(t, domain.RolePatient, convs.participants[0].Role)
	require.Equal(t, session.SessionID, *convs.participants[0].GuestSessionID)
}

func TestJoinAsGuestRequiresName(t *testing.T) {
	svc, _, _ := newTestGuestService()
	_, err := svc.JoinAsGuest(context.Background(), "conv-1", "   ")
	require.Error(t, err)
}

func TestJoinAsGuestUnknownConversation(t *testing.T) {
	svc, _, _ := newTestGuestService()
	_, err := svc.JoinAsGuest(context.Background(), "missing", "Maria")
	require.Error(t, err)
}

func TestValidateSessionRejectsExpired(t *testing.T) {
	svc, guests, _ := newTestGuestService()

	session, err := svc.JoinAsGuest(context.Background(), "conv-1", "Maria")
	require.NoError(t, err)

	got, err := svc.ValidateSession(context.Background(), session.SessionID)
	require.NoError(t, err)
	require.Equal(t, session.SessionID, got.SessionID)

	guests.sessions[session.SessionID].ExpiresAt = time.Now().Add(-time.Minute)
	_, err = svc.ValidateSession(context.Background(), session.SessionID)
	require.Error(t, err)
}

func TestCleanupExpiredRemovesStaleSessions(t *testing.T) {
	svc, guests, _ := newTestGuestService()

	fresh, err := svc.JoinAsGuest(context.Background(), "conv-1", "Maria")
	require.NoError(t, err)
	stale, err := svc.JoinAsGuest(context.Background(), "conv-1", "Jon")
	require.NoError(t, err)
	guests.sessions[stale.SessionID].ExpiresAt = time.Now().Add(-time.Hour)

	svc.CleanupExpired(context.Background())

	require.Contains(t, guests.sessions, fresh.SessionID)
	require.NotContains(t, guests.sessions, stale.SessionID)
}
