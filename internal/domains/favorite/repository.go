// Package favorite manages a user's list of favorite books. Favorites are
// independent of reservations and loans.
package favorite

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/catalog"
)

type Repository interface {
	// Add returns catalog.ErrBookNotFound for a missing or unpublished book
	// and ErrAlreadyFavorite when the pair exists.
	Add(ctx context.Context, userID, bookID uuid.UUID) error
	// Remove returns ErrNotFavorite when nothing was deleted.
	Remove(ctx context.Context, userID, bookID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]catalog.Book, error)
}
