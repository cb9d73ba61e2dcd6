package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/domains/catalog/query"
	"library-backend/internal/shared/apperr"
	pkgdb "library-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) catalog.Repository {
	return &postgresRepository{pool: pool}
}

// ========================= SCAN HELPERS =====================

// ScanBook reads one row in the column order produced by the query package.
func ScanBook(row pgx.Row) (catalog.Book, error) {
	var (
		b      catalog.Book
		status *string
	)
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Description,
		&b.PublicationYear,
		&b.Language,
		&b.PageCount,
		&b.CoverImageURL,
		&b.SourceURL,
		&b.ISBN,
		&b.IsPublished,
		&b.Views,
		&b.CreatedAt,
		&b.AuthorID,
		&b.AuthorName,
		&b.CategoryID,
		&b.CategoryName,
		&b.FavoriteCount,
		&status,
		&b.BorrowerID,
		&b.BorrowerName,
	)
	if status != nil {
		b.Status = *status
	}
	return b, err
}

// QueryBooks runs q on db and scans every row. Never returns a nil slice.
func QueryBooks(ctx context.Context, db Querier, q query.Query) ([]catalog.Book, error) {
	rows, err := db.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]catalog.Book, 0)
	for rows.Next() {
		b, err := ScanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *postgresRepository) list(ctx context.Context, op string, q query.Query, err error) ([]catalog.Book, error) {
	if err != nil {
		return nil, err
	}
	books, err := QueryBooks(ctx, r.pool, q)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}
	return books, nil
}

// ========================= LISTS =====================

func (r *postgresRepository) GetNewBooks(ctx context.Context, limit int) ([]catalog.Book, error) {
	q, err := query.New(limit)
	return r.list(ctx, "catalog.GetNewBooks", q, err)
}

func (r *postgresRepository) GetPopularBooks(ctx context.Context, limit int) ([]catalog.Book, error) {
	q, err := query.Popular(limit)
	return r.list(ctx, "catalog.GetPopularBooks", q, err)
}

func (r *postgresRepository) GetBooksByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]catalog.Book, error) {
	q, err := query.ByCategory(categoryID, limit)
	return r.list(ctx, "catalog.GetBooksByCategory", q, err)
}

func (r *postgresRepository) SearchBooks(ctx context.Context, params catalog.SearchParams) ([]catalog.Book, error) {
	q, err := query.Search(params.Term, params.Category, params.Sort, params.Limit)
	return r.list(ctx, "catalog.SearchBooks", q, err)
}

func (r *postgresRepository) ListAuthoredBy(ctx context.Context, authorID uuid.UUID) ([]catalog.Book, error) {
	q, err := query.AuthoredBy(authorID)
	return r.list(ctx, "catalog.ListAuthoredBy", q, err)
}

// ========================= DETAILS =====================

func (r *postgresRepository) details(ctx context.Context, id uuid.UUID, withStatus bool) (*catalog.Book, error) {
	q, err := query.Details(id, withStatus)
	if err != nil {
		return nil, err
	}
	b, err := ScanBook(r.pool.QueryRow(ctx, q.SQL, q.Args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Repository("catalog.GetBookDetails", err)
	}
	return &b, nil
}

func (r *postgresRepository) GetBookDetails(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	return r.details(ctx, id, false)
}

func (r *postgresRepository) GetBookDetailsWithStatus(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	return r.details(ctx, id, true)
}

func (r *postgresRepository) GetBookSources(ctx context.Context, id uuid.UUID) ([]catalog.Source, error) {
	const sql = `
		SELECT source_name, source_url, is_free
		FROM book_sources
		WHERE book_id = $1
		ORDER BY is_free DESC, source_name
	`
	rows, err := r.pool.Query(ctx, sql, id)
	if err != nil {
		return nil, apperr.Repository("catalog.GetBookSources", err)
	}
	defer rows.Close()

	sources := make([]catalog.Source, 0)
	for rows.Next() {
		var s catalog.Source
		if err := rows.Scan(&s.SourceName, &s.SourceURL, &s.IsFree); err != nil {
			return nil, apperr.Repository("catalog.GetBookSources", err)
		}
		sources = append(sources, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository("catalog.GetBookSources", err)
	}
	return sources, nil
}

// ========================= CATEGORIES =====================

func (r *postgresRepository) GetAllCategories(ctx context.Context) ([]catalog.Category, error) {
	const sql = `
		SELECT c.id, c.name, c.description, COUNT(b.id) AS book_count
		FROM categories c
		LEFT JOIN books b ON b.category_id = c.id AND b.is_published
		GROUP BY c.id
		ORDER BY c.name
	`
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, apperr.Repository("catalog.GetAllCategories", err)
	}
	defer rows.Close()

	categories := make([]catalog.Category, 0)
	for rows.Next() {
		var c catalog.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.BookCount); err != nil {
			return nil, apperr.Repository("catalog.GetAllCategories", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository("catalog.GetAllCategories", err)
	}
	return categories, nil
}

func (r *postgresRepository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, apperr.Repository("catalog.CategoryExists", err)
	}
	return exists, nil
}

// ========================= WRITES =====================

func (r *postgresRepository) CreateBook(ctx context.Context, nb catalog.NewBook) (uuid.UUID, error) {
	id, err := pkgdb.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (uuid.UUID, error) {
		const insertBook = `
			INSERT INTO books (
				title, description, category_id, author_id, publication_year,
				language, page_count, cover_image_url, source_url, isbn,
				is_published, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
			RETURNING id
		`
		var id uuid.UUID
		err := tx.QueryRow(ctx, insertBook,
			nb.Title,
			nb.Description,
			nb.CategoryID,
			nb.AuthorID,
			nb.PublicationYear,
			nb.Language,
			nb.PageCount,
			nb.CoverImageURL,
			nb.SourceURL,
			nb.ISBN,
			nb.IsPublished,
		).Scan(&id)
		if err != nil {
			return uuid.Nil, err
		}

		if len(nb.Sources) == 0 {
			return id, nil
		}

		batch := &pgx.Batch{}
		for _, s := range nb.Sources {
			batch.Queue(
				`INSERT INTO book_sources (book_id, source_name, source_url, is_free) VALUES ($1, $2, $3, $4)`,
				id, s.SourceName, s.SourceURL, s.IsFree,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return uuid.Nil, err
		}
		return id, nil
	})
	if err != nil {
		return uuid.Nil, apperr.Repository("catalog.CreateBook", err)
	}
	return id, nil
}

func (r *postgresRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "UPDATE books SET views = views + 1 WHERE id = $1", id)
	return apperr.Repository("catalog.IncrementViews", err)
}
