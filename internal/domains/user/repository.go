package user

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository persists accounts. Find methods return ErrUserNotFound when no
// row matches; Create maps unique violations to ErrEmailTaken /
// ErrUsernameTaken.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error)
}

// SessionStore remembers sessions ended by logout until they would have
// expired anyway.
type SessionStore interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
