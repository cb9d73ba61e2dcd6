package lending

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/catalog"
)

type Repository interface {
	// GetStatus returns found=false when no published book has this id.
	GetStatus(ctx context.Context, bookID uuid.UUID) (status Status, found bool, err error)

	// CompareAndSwap moves the book from one status to another in a single
	// statement. swapped=false means the book was not in from, or is not a
	// published book; nothing was written.
	CompareAndSwap(ctx context.Context, bookID uuid.UUID, from, to Status) (swapped bool, err error)

	// ListHeld lists books in state held by userID, most recent first.
	ListHeld(ctx context.Context, userID uuid.UUID, state State) ([]catalog.Book, error)
}
