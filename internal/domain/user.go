// File: internal/domain/user.go
package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole describes which side of a consultation a user sits on.
type UserRole string

const (
	RoleDoctor  UserRole = "doctor"
	RolePatient UserRole = "patient"
)

// User represents a registered profile. IDs are UUID strings so they can
// be exchanged with clients and join links without leaking row ordering.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName  string    `json:"full_name"`
	Role      UserRole  `json:"role" gorm:"not null;size:10"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HashPassword securely hashes the user's password.
func (u *User) HashPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ValidatePassword compares a plain-text password with the stored hash.
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) IsValid() error {
	if !strings.Contains(u.Email, "@") {
		return errors.New("a valid email address is required")
	}
	if u.Role != RoleDoctor && u.Role != RolePatient {
		return errors.New("role must be doctor or patient")
	}
	return nil
}
