package user

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/shared"
	"library-backend/pkg/jwt"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	// Logout revokes the session the identity was authenticated with.
	Logout(ctx context.Context, identity shared.Identity) error

	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserDTO, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) (bool, error)
}

// TokenIssuer is satisfied by *jwt.Manager.
type TokenIssuer interface {
	GenerateSessionToken(userID, username, role string) (string, *jwt.Claims, error)
}

// FavoritesReader and AuthoredBooksReader feed the profile page.
type FavoritesReader interface {
	List(ctx context.Context, userID uuid.UUID) ([]catalog.Book, error)
}

type AuthoredBooksReader interface {
	ListAuthoredBy(ctx context.Context, authorID uuid.UUID) ([]catalog.Book, error)
}
