package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/domains/catalog/query"
	catalogrepo "library-backend/internal/domains/catalog/repository"
	"library-backend/internal/domains/favorite"
	"library-backend/internal/shared/apperr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) favorite.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Add(ctx context.Context, userID, bookID uuid.UUID) error {
	const insert = `
		INSERT INTO favorite_books (user_id, book_id, created_at)
		SELECT $1::uuid, b.id, NOW()
		FROM books b
		WHERE b.id = $2 AND b.is_published = TRUE
		ON CONFLICT (user_id, book_id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, insert, userID, bookID)
	if err != nil {
		return apperr.Repository("favorite.Add", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// 0 rows: sách không tồn tại hoặc đã có trong favorites
	var published bool
	err = r.pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM books WHERE id = $1 AND is_published = TRUE)", bookID,
	).Scan(&published)
	if err != nil {
		return apperr.Repository("favorite.Add", err)
	}
	if !published {
		return catalog.ErrBookNotFound
	}
	return favorite.ErrAlreadyFavorite
}

func (r *postgresRepository) Remove(ctx context.Context, userID, bookID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		"DELETE FROM favorite_books WHERE user_id = $1 AND book_id = $2", userID, bookID)
	if err != nil {
		return apperr.Repository("favorite.Remove", err)
	}
	if tag.RowsAffected() == 0 {
		return favorite.ErrNotFavorite
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, userID uuid.UUID) ([]catalog.Book, error) {
	q, err := query.FavoritesOf(userID)
	if err != nil {
		return nil, err
	}
	books, err := catalogrepo.QueryBooks(ctx, r.pool, q)
	if err != nil {
		return nil, apperr.Repository("favorite.List", err)
	}
	return books, nil
}
