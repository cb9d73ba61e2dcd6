package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/domains/favorite"
	"library-backend/internal/shared/apperr"
	"library-backend/pkg/logger"
)

type favoriteService struct {
	repo favorite.Repository
}

func NewFavoriteService(repo favorite.Repository) favorite.Service {
	return &favoriteService{repo: repo}
}

func (s *favoriteService) Add(ctx context.Context, userID uuid.UUID, req favorite.AddRequest) error {
	if err := req.Validate(); err != nil {
		return apperr.Validation(err)
	}
	bookID := uuid.MustParse(req.BookID)

	if err := s.repo.Add(ctx, userID, bookID); err != nil {
		return err
	}
	logger.Debug("favorite added", map[string]interface{}{
		"user_id": userID.String(),
		"book_id": bookID.String(),
	})
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, bookID uuid.UUID) error {
	return s.repo.Remove(ctx, userID, bookID)
}

// List newest first.
func (s *favoriteService) List(ctx context.Context, userID uuid.UUID) ([]catalog.Book, error) {
	return s.repo.List(ctx, userID)
}
