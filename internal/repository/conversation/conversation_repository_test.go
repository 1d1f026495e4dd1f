// File: internal/repository/conversation/conversation_repository_test.go
package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Conversation{}, &domain.ConversationParticipant{}))
	return db
}

func strPtr(s string) *string { return &s }

func conv(id, creator string, at time.Time) *domain.Conversation {
	return &domain.Conversation{
		ID:              id,
		CreatorID:       creator,
		Title:           "Visit",
		DoctorLanguage:  "en",
		PatientLanguage: "es",
		CreatedAt:       at,
	}
}

func TestCreateAndFindByID(t *testing.T) {
	repo := NewConversationRepository(setupDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, conv("c1", "doc-1", time.Now().UTC()))
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "doc-1", got.CreatorID)
	require.Equal(t, "en", got.DoctorLanguage)

	_, err = repo.FindByID(ctx, "missing")
	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestFindByParticipantOrdersNewestFirst(t *testing.T) {
	repo := NewConversationRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"c1", "c2"} {
		_, err := repo.Create(ctx, conv(id, "doc-1", base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
		userID := "doc-1"
		require.NoError(t, repo.AddParticipant(ctx, &domain.ConversationParticipant{
			ID: "p-" + id, ConversationID: id, UserID: &userID, Role: domain.RoleDoctor,
		}))
	}
	// A conversation the user never joined stays invisible.
	_, err := repo.Create(ctx, conv("c3", "doc-2", base))
	require.NoError(t, err)

	convs, err := repo.FindByParticipant(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, convs, 2)
	require.Equal(t, "c2", convs[0].ID)
	require.Equal(t, "c1", convs[1].ID)
}

func TestUpdatePatientLanguage(t *testing.T) {
	repo := NewConversationRepository(setupDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, conv("c1", "doc-1", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePatientLanguage(ctx, "c1", "pt"))
	got, err := repo.FindByID(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, "pt", got.PatientLanguage)

	require.ErrorIs(t, repo.UpdatePatientLanguage(ctx, "missing", "pt"), ErrConversationNotFound)
}

func TestDeleteRequiresCreator(t *testing.T) {
	repo := NewConversationRepository(setupDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, conv("c1", "doc-1", time.Now().UTC()))
	require.NoError(t, err)

	require.ErrorIs(t, repo.Delete(ctx, "c1", "someone-else"), ErrUnauthorizedAccess)

	require.NoError(t, repo.Delete(ctx, "c1", "doc-1"))
	_, err = repo.FindByID(ctx, "c1")
	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestParticipantLookupByUserAndGuest(t *testing.T) {
	repo := NewConversationRepository(setupDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, conv("c1", "doc-1", time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, repo.AddParticipant(ctx, &domain.ConversationParticipant{
		ID: "p1", ConversationID: "c1", UserID: strPtr("doc-1"), Role: domain.RoleDoctor,
	}))
	require.NoError(t, repo.AddParticipant(ctx, &domain.ConversationParticipant{
		ID: "p2", ConversationID: "c1", GuestSessionID: strPtr("sess-1"), Role: domain.RolePatient,
	}))

	byUser, err := repo.FindParticipant(ctx, "c1", "doc-1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleDoctor, byUser.Role)

	byGuest, err := repo.FindGuestParticipant(ctx, "c1", "sess-1")
	require.NoError(t, err)
	require.Equal(t, domain.RolePatient, byGuest.Role)

	_, err = repo.FindParticipant(ctx, "c1", "stranger")
	require.ErrorIs(t, err, ErrParticipantNotFound)
	_, err = repo.FindGuestParticipant(ctx, "c1", "stale-session")
	require.ErrorIs(t, err, ErrParticipantNotFound)

	all, err := repo.ListParticipants(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, all, 2)
}
