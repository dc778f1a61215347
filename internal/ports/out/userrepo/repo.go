package userrepo

import (
	"context"
	"time"

	"github.com/cityplay/activity-booking-api/internal/domain"
)

// User is the persistence shape used by the user repository. It carries the
// password hash, which the domain representation never does.
type User struct {
	ID    domain.UserID
	Name  string
	Email string
	Phone string
	// PasswordHash is a bcrypt hash. It is only populated by GetCredentialsByEmail;
	// every other read returns it empty.
	PasswordHash string

	CreatedAt time.Time
}

// Repository provides access to persisted users.
type Repository interface {
	// Create persists a new user. ErrEmailTaken is returned when another user
	// already holds the same email (uniqueness is enforced by the store).
	Create(ctx context.Context, u User) error

	// GetByID returns the user without credential material.
	GetByID(ctx context.Context, id domain.UserID) (User, error)

	// GetCredentialsByEmail returns the user including its password hash.
	// This is the only read that exposes the hash.
	GetCredentialsByEmail(ctx context.Context, email string) (User, error)
}
