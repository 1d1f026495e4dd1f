// File: internal/handlers/auth_handlers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Kenaine/healthcare-translation/internal/domain"
	"github.com/Kenaine/healthcare-translation/internal/dtos"
	"github.com/Kenaine/healthcare-translation/internal/middleware"
	"github.com/Kenaine/healthcare-translation/internal/services/user_services"
)

var (
	emailRegex        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	passwordMinLength = 8
)

// AuthHandler holds the dependencies for authentication handlers.
type AuthHandler struct {
	AuthService *user_services.AuthService
	UserService *user_services.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *user_services.AuthService, users *user_services.UserService) *AuthHandler {
	return &AuthHandler{AuthService: auth, UserService: users}
}

// validateRegistration ensures email, name, and password meet basic rules.
func validateRegistration(req *dtos.RegisterRequestDTO) string {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)

	switch {
	case !emailRegex.MatchString(req.Email):
		return "Email address format invalid."
	case req.FullName == "":
		return "Full name is required."
	case len(req.Password) < passwordMinLength:
		return "Password must be at least 8 characters."
	case req.Role != string(domain.RoleDoctor) && req.Role != string(domain.RolePatient):
		return "Role must be doctor or patient."
	}
	return ""
}

// Register handles new account creation.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dtos.RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if errMsg := validateRegistration(&req); errMsg != "" {
		writeError(w, errMsg, http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Email, req.FullName, req.Password, domain.UserRole(req.Role))
	if err != nil {
		if strings.Contains(err.Error(), "already registered") {
			writeError(w, "An account with this email already exists", http.StatusConflict)
			return
		}
		writeError(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, dtos.UserFromDomain(*user))
}

// Login validates credentials and sets the auth cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dtos.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, dtos.LoginResponseDTO{
		User:  dtos.UserFromDomain(*user),
		Token: token,
	})
}

// Logout clears the auth cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Path:     "/",
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not load profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.UserFromDomain(*user))
}

// UpdateProfile changes the caller's display name.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		FullName string `json:"full_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.FullName) == "" {
		writeError(w, "Full name is required", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), userID, strings.TrimSpace(req.FullName))
	if err != nil {
		writeError(w, "Could not update profile", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dtos.UserFromDomain(*user))
}
