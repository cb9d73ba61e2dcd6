package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/domains/catalog/query"
	catalogrepo "library-backend/internal/domains/catalog/repository"
	"library-backend/internal/domains/lending"
	"library-backend/internal/shared/apperr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) lending.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) GetStatus(ctx context.Context, bookID uuid.UUID) (lending.Status, bool, error) {
	const sql = `
		SELECT bs.status, bs.borrower_id
		FROM books b
		LEFT JOIN book_status bs ON bs.book_id = b.id
		WHERE b.id = $1 AND b.is_published = TRUE
	`
	var (
		state    *string
		borrower *uuid.UUID
	)
	err := r.pool.QueryRow(ctx, sql, bookID).Scan(&state, &borrower)
	if errors.Is(err, pgx.ErrNoRows) {
		return lending.Available(), false, nil
	}
	if err != nil {
		return lending.Status{}, false, apperr.Repository("lending.GetStatus", err)
	}

	raw := ""
	if state != nil {
		raw = *state
	}
	status, err := lending.StatusFromRecord(raw, borrower)
	if err != nil {
		return lending.Status{}, false, apperr.Repository("lending.GetStatus", err)
	}
	return status, true, nil
}

// ========================= COMPARE AND SWAP =====================

// Leaving available: upsert guarded by the current status. The SELECT from
// books makes a missing or unpublished book affect zero rows.
const leaveAvailable = `
	INSERT INTO book_status (book_id, status, borrower_id, created_at, updated_at)
	SELECT b.id, $2::varchar, $3::uuid, NOW(), NOW()
	FROM books b
	WHERE b.id = $1 AND b.is_published = TRUE
	ON CONFLICT (book_id) DO UPDATE
	SET status = EXCLUDED.status,
	    borrower_id = EXCLUDED.borrower_id,
	    updated_at = NOW()
	WHERE book_status.status = 'available'
`

// Returning to available: only the current holder's row matches.
const backToAvailable = `
	UPDATE book_status
	SET status = 'available', borrower_id = NULL, updated_at = NOW()
	WHERE book_id = $1 AND status = $2 AND borrower_id = $3
`

func (r *postgresRepository) CompareAndSwap(ctx context.Context, bookID uuid.UUID, from, to lending.Status) (bool, error) {
	var (
		sql  string
		args []interface{}
	)
	switch {
	case from.IsAvailable() && !to.IsAvailable():
		sql = leaveAvailable
		args = []interface{}{bookID, string(to.State()), *to.Holder()}
	case !from.IsAvailable() && to.IsAvailable():
		sql = backToAvailable
		args = []interface{}{bookID, string(from.State()), *from.Holder()}
	default:
		return false, fmt.Errorf("unsupported transition %s -> %s", from, to)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return false, apperr.Repository("lending.CompareAndSwap", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ========================= LISTS =====================

func (r *postgresRepository) ListHeld(ctx context.Context, userID uuid.UUID, state lending.State) ([]catalog.Book, error) {
	q, err := query.HeldBy(userID, string(state))
	if err != nil {
		return nil, err
	}
	books, err := catalogrepo.QueryBooks(ctx, r.pool, q)
	if err != nil {
		return nil, apperr.Repository("lending.ListHeld", err)
	}
	return books, nil
}
