//go:build integration

// Package dbtest starts a throwaway PostgreSQL for integration tests.
package dbtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"library-backend/internal/infrastructure/database"
)

// Start runs PostgreSQL in a container, applies the embedded migrations and
// returns a pool on it. The container is terminated when the test ends.
func Start(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("library_test"),
		postgres.WithUsername("library"),
		postgres.WithPassword("library"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	require.NoError(t, err)
	migrations, err := database.LoadMigrations()
	require.NoError(t, err)
	_, err = database.NewMigrator(sqlDB, migrations).Up(ctx)
	require.NoError(t, err)
	_ = sqlDB.Close()

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})
	return pool
}

func SeedUser(t *testing.T, pool *pgxpool.Pool, name, role string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (username, email, password_hash, role) VALUES ($1, $2, 'x', $3) RETURNING id`,
		name, name+"@example.com", role,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func SeedBook(t *testing.T, pool *pgxpool.Pool, title string, author uuid.UUID, category *uuid.UUID, published bool) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO books (title, author_id, category_id, is_published) VALUES ($1, $2, $3, $4) RETURNING id`,
		title, author, category, published,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// CategoryID returns the id of a seeded category.
func CategoryID(t *testing.T, pool *pgxpool.Pool, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(), `SELECT id FROM categories WHERE name = $1`, name).Scan(&id)
	require.NoError(t, err)
	return id
}
