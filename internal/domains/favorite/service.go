package favorite

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/catalog"
)

type AddRequest struct {
	BookID string `json:"book_id"`
}

type Service interface {
	Add(ctx context.Context, userID uuid.UUID, req AddRequest) error
	Remove(ctx context.Context, userID, bookID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]catalog.Book, error)
}
