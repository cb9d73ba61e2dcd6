package lending

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/catalog"
)

// Service applies circulation actions. actor is always the authenticated
// user; it never comes from the request body.
type Service interface {
	GetStatus(ctx context.Context, bookID uuid.UUID) (Status, error)
	Reserve(ctx context.Context, actor, bookID uuid.UUID) (Status, error)
	CancelReservation(ctx context.Context, actor, bookID uuid.UUID) (Status, error)
	Borrow(ctx context.Context, actor, bookID uuid.UUID) (Status, error)
	ReturnBook(ctx context.Context, actor, bookID uuid.UUID) (Status, error)

	ListReserved(ctx context.Context, userID uuid.UUID) ([]catalog.Book, error)
	ListBorrowed(ctx context.Context, userID uuid.UUID) ([]catalog.Book, error)
}
