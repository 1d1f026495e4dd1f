// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Kenaine/healthcare-translation/internal/auth"
	"github.com/Kenaine/healthcare-translation/internal/domain"
	"github.com/Kenaine/healthcare-translation/internal/repository/user"
)

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// Register creates a doctor or patient profile and hashes the password.
func (s *AuthService) Register(ctx context.Context, email, fullName, password string, role domain.UserRole) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		s.logger.Warn("registration failed - email already registered",
			"email", maskEmail(email))
		return nil, errors.New("email already registered")
	}

	newUser := &domain.User{
		ID:       uuid.NewString(),
		Email:    email,
		FullName: strings.TrimSpace(fullName),
		Role:     role,
	}
	if err := newUser.HashPassword(password); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := newUser.IsValid(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	created, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		"user_id", created.ID, "role", created.Role, "email", maskEmail(email))
	return created, nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, "", errors.New("email and password are required")
	}

	account, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login failed - user not found", "email", maskEmail(email))
		return nil, "", errors.New("invalid credentials")
	}

	if err := account.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password",
			"email", maskEmail(email), "user_id", account.ID)
		return nil, "", errors.New("invalid credentials")
	}

	token, err := auth.GenerateJWT(account.ID, []byte(s.jwtSecretKey))
	if err != nil {
		s.logger.Error("JWT token generation failed",
			"user_id", account.ID, "error", err)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful",
		"user_id", account.ID, "role", account.Role)
	return account, token, nil
}

// ValidateJWTToken resolves a token to a user ID.
func (s *AuthService) ValidateJWTToken(tokenString string) (string, error) {
	return auth.ValidateToken(tokenString, []byte(s.jwtSecretKey))
}

func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "****"
	}
	return email[:1] + "****" + email[at:]
}
