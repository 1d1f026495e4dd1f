// File: internal/services/user_services/user_service.go
package user_services

import (
	"context"
	"errors"
	"strings"

	"github.com/Kenaine/healthcare-translation/internal/domain"
	"github.com/Kenaine/healthcare-translation/internal/repository/user"
)

// UserService handles profile reads and updates.
type UserService struct {
	userRepo user.UserRepository
	logger   Logger
}

func NewUserService(userRepo user.UserRepository, logger Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// UpdateProfile changes the display name. Email and role are fixed
// after registration.
func (s *UserService) UpdateProfile(ctx context.Context, id, fullName string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, errors.New("full name cannot be empty")
	}

	account, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.FullName = fullName
	if err := s.userRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", id)
	return account, nil
}
