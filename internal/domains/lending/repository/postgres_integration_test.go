//go:build integration

package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/lending"
	"library-backend/internal/domains/lending/service"
	"library-backend/internal/infrastructure/database/dbtest"
	"library-backend/internal/shared/apperr"
)

func seedUser(t *testing.T, pool *pgxpool.Pool, name string) uuid.UUID {
	return dbtest.SeedUser(t, pool, name, "author")
}

func seedBook(t *testing.T, pool *pgxpool.Pool, author uuid.UUID, published bool) uuid.UUID {
	return dbtest.SeedBook(t, pool, "Dune", author, nil, published)
}

func TestPostgresLending(t *testing.T) {
	pool := dbtest.Start(t)

	ctx := context.Background()
	repo := NewPostgresRepository(pool)
	svc := service.NewLendingService(repo)

	alice := seedUser(t, pool, "alice")
	bob := seedUser(t, pool, "bob")

	t.Run("no record is available", func(t *testing.T) {
		book := seedBook(t, pool, alice, true)
		status, found, err := repo.GetStatus(ctx, book)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, lending.Available(), status)
	})

	t.Run("unpublished book not found", func(t *testing.T) {
		book := seedBook(t, pool, alice, false)
		_, err := svc.Reserve(ctx, bob, book)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("reserve cancel borrow return", func(t *testing.T) {
		book := seedBook(t, pool, alice, true)

		_, err := svc.Reserve(ctx, bob, book)
		require.NoError(t, err)

		reserved, err := repo.ListHeld(ctx, bob, lending.StateReserved)
		require.NoError(t, err)
		require.Len(t, reserved, 1)
		assert.Equal(t, book, reserved[0].ID)
		assert.Equal(t, "reserved", reserved[0].Status)
		require.NotNil(t, reserved[0].BorrowerName)
		assert.Equal(t, "bob", *reserved[0].BorrowerName)

		_, err = svc.Borrow(ctx, alice, book)
		assert.ErrorIs(t, err, lending.ErrReservedCancelFirst)

		_, err = svc.CancelReservation(ctx, alice, book)
		assert.ErrorIs(t, err, lending.ErrNotReserver)

		_, err = svc.CancelReservation(ctx, bob, book)
		require.NoError(t, err)

		_, err = svc.Borrow(ctx, alice, book)
		require.NoError(t, err)

		_, err = svc.ReturnBook(ctx, bob, book)
		assert.ErrorIs(t, err, lending.ErrNotBorrower)

		_, err = svc.ReturnBook(ctx, alice, book)
		require.NoError(t, err)

		status, err := svc.GetStatus(ctx, book)
		require.NoError(t, err)
		assert.True(t, status.IsAvailable())
	})

	t.Run("concurrent reserves", func(t *testing.T) {
		book := seedBook(t, pool, alice, true)

		const n = 16
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		start := make(chan struct{})
		for i := 0; i < n; i++ {
			actor := alice
			if i%2 == 0 {
				actor = bob
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				_, err := svc.Reserve(ctx, actor, book)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case apperr.KindOf(err) == apperr.KindConflict:
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, n-1, conflicts)
	})
}
