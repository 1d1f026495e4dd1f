package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/Kenaine/healthcare-translation/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateEmail = errors.New("email already registered")

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := user.IsValid(); err != nil {
		log.Printf("[UserRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, ErrDuplicateEmail
		}
		// Secure logging - no credentials exposed
		log.Printf("[UserRepository] Database error during user creation: %v", err)
		return nil, errors.New("database error creating user")
	}

	log.Printf("[UserRepository] User created successfully with ID: %s role: %s", user.ID, user.Role)
	return user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, errors.New("invalid user ID")
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("[UserRepository] Database error finding user ID %s: %v", id, err)
		return nil, errors.New("database error fetching user")
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, errors.New("invalid email")
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("[UserRepository] Database error finding user by email: %v", err)
		return nil, errors.New("database error fetching user")
	}
	return &user, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		return errors.New("invalid user ID")
	}

	result := r.db.WithContext(ctx).Save(user)
	if result.Error != nil {
		log.Printf("[UserRepository] Database error updating user ID %s: %v", user.ID, result.Error)
		return errors.New("database error updating user")
	}
	return nil
}

func (r *gormUserRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("invalid user ID")
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if result.Error != nil {
		log.Printf("[UserRepository] Database error deleting user ID %s: %v", id, result.Error)
		return errors.New("database error deleting user")
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
