package service

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/domains/favorite"
	"library-backend/internal/shared/apperr"
)

type pair struct{ user, book uuid.UUID }

type memoryRepository struct {
	mu        sync.Mutex
	published map[uuid.UUID]bool
	order     []pair
}

func (r *memoryRepository) Add(_ context.Context, userID, bookID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.published[bookID] {
		return catalog.ErrBookNotFound
	}
	for _, p := range r.order {
		if p == (pair{userID, bookID}) {
			return favorite.ErrAlreadyFavorite
		}
	}
	r.order = append(r.order, pair{userID, bookID})
	return nil
}

func (r *memoryRepository) Remove(_ context.Context, userID, bookID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.order {
		if p == (pair{userID, bookID}) {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return nil
		}
	}
	return favorite.ErrNotFavorite
}

func (r *memoryRepository) List(_ context.Context, userID uuid.UUID) ([]catalog.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	books := make([]catalog.Book, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		if r.order[i].user == userID {
			books = append(books, catalog.Book{ID: r.order[i].book})
		}
	}
	return books, nil
}

func TestFavorites(t *testing.T) {
	ctx := context.Background()
	dune, emma := uuid.New(), uuid.New()
	repo := &memoryRepository{published: map[uuid.UUID]bool{dune: true, emma: true}}
	svc := NewFavoriteService(repo)
	alice := uuid.New()

	require.NoError(t, svc.Add(ctx, alice, favorite.AddRequest{BookID: dune.String()}))
	require.NoError(t, svc.Add(ctx, alice, favorite.AddRequest{BookID: emma.String()}))

	err := svc.Add(ctx, alice, favorite.AddRequest{BookID: dune.String()})
	assert.ErrorIs(t, err, favorite.ErrAlreadyFavorite)

	books, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, emma, books[0].ID, "newest first")

	require.NoError(t, svc.Remove(ctx, alice, dune))
	err = svc.Remove(ctx, alice, dune)
	assert.ErrorIs(t, err, favorite.ErrNotFavorite)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestFavorites_AddValidation(t *testing.T) {
	svc := NewFavoriteService(&memoryRepository{published: map[uuid.UUID]bool{}})

	err := svc.Add(context.Background(), uuid.New(), favorite.AddRequest{BookID: "nope"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.Add(context.Background(), uuid.New(), favorite.AddRequest{BookID: uuid.NewString()})
	assert.ErrorIs(t, err, catalog.ErrBookNotFound)
}
