// File: internal/repository/message/message_repository_test.go
package message

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
	require.NoError(t, db.AutoMigrate(&domain.Message{}))
	return db
}

func strPtr(s string) *string { return &s }

func textMessage(id, conv, text string, at time.Time) *domain.Message {
	return &domain.Message{
		ID:             id,
		ConversationID: conv,
		SenderID:       "doc-1",
		SenderRole:     domain.RoleDoctor,
		OriginalText:   strPtr(text),
		TranslatedText: strPtr(text),
		CreatedAt:      at,
	}
}

func TestCreateAndFindOrdered(t *testing.T) {
	repo := NewMessageRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Insert out of order; reads must come back by creation time.
	_, err := repo.Create(ctx, textMessage("m2", "conv-1", "second", base.Add(time.Minute)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, textMessage("m1", "conv-1", "first", base))
	require.NoError(t, err)
	_, err = repo.Create(ctx, textMessage("m3", "conv-2", "other", base))
	require.NoError(t, err)

	msgs, err := repo.FindByConversationID(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "m1", msgs[0].ID)
	require.Equal(t, "m2", msgs[1].ID)

	count, err := repo.CountByConversationID(ctx, "conv-1")
	require.NoError(t, err)
	require.EqualValues(t, 2, count)
}

func TestCreateRejectsEmptyPayload(t *testing.T) {
	repo := NewMessageRepository(setupDB(t))

	_, err := repo.Create(context.Background(), &domain.Message{
		ID: "m1", ConversationID: "conv-1", SenderID: "doc-1", SenderRole: domain.RoleDoctor,
	})
	require.Error(t, err)
}

func TestCreateAcceptsAudioOnly(t *testing.T) {
	repo := NewMessageRepository(setupDB(t))

	_, err := repo.Create(context.Background(), &domain.Message{
		ID: "m1", ConversationID: "conv-1", SenderID: "doc-1", SenderRole: domain.RoleDoctor,
		AudioURL:  strPtr("https://example.com/a.ogg"),
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := NewMessageRepository(setupDB(t))
	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrMessageNotFound)
}

func TestSearchMatchesBothTextSides(t *testing.T) {
	repo := NewMessageRepository(setupDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	m := textMessage("m1", "conv-1", "persistent cough", base)
	m.TranslatedText = strPtr("tos persistente")
	_, err := repo.Create(ctx, m)
	require.NoError(t, err)
	_, err = repo.Create(ctx, textMessage("m2", "conv-1", "fever", base.Add(time.Minute)))
	require.NoError(t, err)

	for _, term := range []string{"cough", "tos"} {
		found, err := repo.Search(ctx, []string{"conv-1"}, term, 50)
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Equal(t, "m1", found[0].ID)
	}

	// Out-of-scope conversations never match.
	found, err := repo.Search(ctx, []string{"conv-2"}, "cough", 50)
	require.NoError(t, err)
	require.Empty(t, found)
}

func TestSearchRejectsEmptyTerm(t *testing.T) {
	repo := NewMessageRepository(setupDB(t))
	_, err := repo.Search(context.Background(), []string{"conv-1"}, "  ", 50)
	require.Error(t, err)
}

func TestDeleteByConversationID(t *testing.T) {
	repo := NewMessageRepository(setupDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := repo.Create(ctx, textMessage("m1", "conv-1", "a", now))
	require.NoError(t, err)
	_, err = repo.Create(ctx, textMessage("m2", "conv-2", "b", now))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByConversationID(ctx, "conv-1"))

	count, err := repo.CountByConversationID(ctx, "conv-1")
	require.NoError(t, err)
	require.Zero(t, count)
	count, err = repo.CountByConversationID(ctx, "conv-2")
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}
