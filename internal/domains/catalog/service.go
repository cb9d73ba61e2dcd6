package catalog

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/shared"
)

type Service interface {
	SearchBooks(ctx context.Context, params SearchParams) ([]Book, error)
	GetNewBooks(ctx context.Context, limit int) ([]Book, error)
	GetPopularBooks(ctx context.Context, limit int) ([]Book, error)
	GetBooksByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]Book, error)

	GetBookDetails(ctx context.Context, id uuid.UUID) (*Book, error)
	// GetBookDetailsWithStatus also loads sources and counts a view.
	GetBookDetailsWithStatus(ctx context.Context, id uuid.UUID) (*BookDetails, error)
	GetBookSources(ctx context.Context, id uuid.UUID) ([]Source, error)
	GetAllCategories(ctx context.Context) ([]Category, error)

	ListAuthoredBy(ctx context.Context, authorID uuid.UUID) ([]Book, error)
	CreateBook(ctx context.Context, actor shared.Identity, req CreateBookRequest) (*Book, error)
}
