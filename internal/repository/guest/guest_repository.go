package guest

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

var ErrGuestSessionNotFound = errors.New("guest session not found")

// GuestRepository handles temporary guest-session data operations.
type GuestRepository interface {
	Create(ctx context.Context, session *domain.GuestSession) (*domain.GuestSession, error)
	FindBySessionID(ctx context.Context, sessionID string) (*domain.GuestSession, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type gormGuestRepository struct {
	db *gorm.DB
}

func NewGuestRepository(db *gorm.DB) GuestRepository {
	return &gormGuestRepository{db: db}
}

func (r *gormGuestRepository) Create(ctx context.Context, session *domain.GuestSession) (*domain.GuestSession, error) {
	if session == nil || session.SessionID == "" || session.ConversationID == "" {
		return nil, errors.New("invalid guest session input")
	}
	if session.GuestName == "" {
		return nil, errors.New("guest name is required")
	}

	err := r.db.WithContext(ctx).Create(session).Error
	if err != nil {
		log.Printf("[GuestRepository] Database error creating guest session for conversation %s: %v", session.ConversationID, err)
		return nil, errors.New("database error creating guest session")
	}
	return session, nil
}

func (r *gormGuestRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.GuestSession, error) {
	if sessionID == "" {
		return nil, errors.New("invalid session ID")
	}

	var session domain.GuestSession
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestSessionNotFound
		}
		log.Printf("[GuestRepository] Database error finding guest session: %v", err)
		return nil, errors.New("database error fetching guest session")
	}
	return &session, nil
}

// DeleteExpired removes sessions past their expiry, returning how many
// were cleaned up.
func (r *gormGuestRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&domain.GuestSession{})
	if result.Error != nil {
		log.Printf("[GuestRepository] Database error deleting expired guest sessions: %v", result.Error)
		return 0, errors.New("database error deleting expired guest sessions")
	}
	if result.RowsAffected > 0 {
		log.Printf("[GuestRepository] Cleaned up %d expired guest sessions", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
