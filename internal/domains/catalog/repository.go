package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Repository đọc catalog. Details lookups return (nil, nil) when the book
// does not exist or is unpublished; lists never return nil slices.
type Repository interface {
	GetNewBooks(ctx context.Context, limit int) ([]Book, error)
	GetPopularBooks(ctx context.Context, limit int) ([]Book, error)
	GetBooksByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]Book, error)
	SearchBooks(ctx context.Context, params SearchParams) ([]Book, error)

	GetBookDetails(ctx context.Context, id uuid.UUID) (*Book, error)
	GetBookDetailsWithStatus(ctx context.Context, id uuid.UUID) (*Book, error)
	GetBookSources(ctx context.Context, id uuid.UUID) ([]Source, error)

	GetAllCategories(ctx context.Context) ([]Category, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)

	ListAuthoredBy(ctx context.Context, authorID uuid.UUID) ([]Book, error)

	// CreateBook inserts the book and its sources atomically and returns the new id.
	CreateBook(ctx context.Context, book NewBook) (uuid.UUID, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
}
