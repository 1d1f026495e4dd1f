// File: internal/middleware/auth.go
package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/Kenaine/healthcare-translation/internal/services/user_services"
)

// NewJWTMiddleware validates the auth_token cookie and stores the
// resolved user ID in the request context.
func NewJWTMiddleware(authService *user_services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("auth_token")
			if err != nil {
				unauthorized(w, "authentication required")
				return
			}

			userID, err := authService.ValidateJWTToken(cookie.Value)
			if err != nil {
				log.Printf("[AuthMiddleware] Invalid token: %v", err)
				// Clear the invalid cookie
				http.SetCookie(w, &http.Cookie{
					Name:     "auth_token",
					Value:    "",
					Path:     "/",
					Expires:  time.Unix(0, 0),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewGuestMiddleware accepts either a registered user (JWT cookie) or a
// guest session cookie, so share-link patients can reach conversation
// endpoints without an account.
func NewGuestMiddleware(authService *user_services.AuthService, guestService *user_services.GuestService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie("auth_token"); err == nil {
				if userID, err := authService.ValidateJWTToken(cookie.Value); err == nil {
					ctx := context.WithValue(r.Context(), UserIDKey, userID)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			if cookie, err := r.Cookie("guest_session"); err == nil {
				if session, err := guestService.ValidateSession(r.Context(), cookie.Value); err == nil {
					ctx := context.WithValue(r.Context(), GuestSessionKey, session.SessionID)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			unauthorized(w, "authentication required")
		})
	}
}

// UserIDFromContext returns the authenticated user ID, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok
}

// GuestSessionFromContext returns the guest session ID, if any.
func GuestSessionFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(GuestSessionKey).(string)
	return id, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
