package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/shared"
	"library-backend/internal/shared/apperr"
	"library-backend/pkg/cache"
	"library-backend/pkg/logger"
)

const (
	categoriesKey    = "catalog:categories"
	sourcesKeyPrefix = "catalog:sources:"
)

type CacheTTL struct {
	Categories time.Duration
	Sources    time.Duration
}

type catalogService struct {
	repo  catalog.Repository
	cache cache.Cache
	ttl   CacheTTL
}

// NewCatalogService wires the catalog reads. cache may be nil, in which
// case every read goes to the repository.
func NewCatalogService(repo catalog.Repository, c cache.Cache, ttl CacheTTL) catalog.Service {
	return &catalogService{repo: repo, cache: c, ttl: ttl}
}

// ========================= LISTS =====================

func (s *catalogService) SearchBooks(ctx context.Context, params catalog.SearchParams) ([]catalog.Book, error) {
	return s.repo.SearchBooks(ctx, params)
}

func (s *catalogService) GetNewBooks(ctx context.Context, limit int) ([]catalog.Book, error) {
	return s.repo.GetNewBooks(ctx, limit)
}

func (s *catalogService) GetPopularBooks(ctx context.Context, limit int) ([]catalog.Book, error) {
	return s.repo.GetPopularBooks(ctx, limit)
}

func (s *catalogService) GetBooksByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]catalog.Book, error) {
	return s.repo.GetBooksByCategory(ctx, categoryID, limit)
}

func (s *catalogService) ListAuthoredBy(ctx context.Context, authorID uuid.UUID) ([]catalog.Book, error) {
	return s.repo.ListAuthoredBy(ctx, authorID)
}

// ========================= DETAILS =====================

func (s *catalogService) GetBookDetails(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	book, err := s.repo.GetBookDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, catalog.ErrBookNotFound
	}
	return book, nil
}

func (s *catalogService) GetBookDetailsWithStatus(ctx context.Context, id uuid.UUID) (*catalog.BookDetails, error) {
	book, err := s.repo.GetBookDetailsWithStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, catalog.ErrBookNotFound
	}

	sources, err := s.GetBookSources(ctx, id)
	if err != nil {
		return nil, err
	}

	// Lượt xem không được làm hỏng request đọc
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		logger.Warn("increment views failed", map[string]interface{}{
			"book_id": id.String(),
			"error":   err.Error(),
		})
	} else {
		book.Views++
	}

	return &catalog.BookDetails{Book: *book, Sources: sources}, nil
}

func (s *catalogService) GetBookSources(ctx context.Context, id uuid.UUID) ([]catalog.Source, error) {
	key := sourcesKeyPrefix + id.String()

	var cached []catalog.Source
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	sources, err := s.repo.GetBookSources(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, sources, s.ttl.Sources)
	return sources, nil
}

func (s *catalogService) GetAllCategories(ctx context.Context) ([]catalog.Category, error) {
	var cached []catalog.Category
	if s.cacheGet(ctx, categoriesKey, &cached) {
		return cached, nil
	}

	categories, err := s.repo.GetAllCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, categoriesKey, categories, s.ttl.Categories)
	return categories, nil
}

// ========================= CREATE =====================

func (s *catalogService) CreateBook(ctx context.Context, actor shared.Identity, req catalog.CreateBookRequest) (*catalog.Book, error) {
	if !actor.IsAuthor() {
		return nil, catalog.ErrAuthorOnly
	}
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	nb := req.ToNewBook(actor.UserID)

	exists, err := s.repo.CategoryExists(ctx, nb.CategoryID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, catalog.ErrUnknownCategory
	}

	id, err := s.repo.CreateBook(ctx, nb)
	if err != nil {
		return nil, err
	}

	// book_count trong categories đã thay đổi
	if s.cache != nil {
		if err := s.cache.Delete(ctx, categoriesKey); err != nil {
			logger.Warn("invalidate categories cache failed", map[string]interface{}{"error": err.Error()})
		}
	}

	logger.Info("book created", map[string]interface{}{
		"book_id":   id.String(),
		"author_id": actor.UserID.String(),
		"sources":   len(nb.Sources),
	})

	book, err := s.GetBookDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload created book: %w", err)
	}
	return book, nil
}

// ========================= CACHE HELPERS =====================

func (s *catalogService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		logger.Warn("cache get failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	return found
}

func (s *catalogService) cacheSet(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		logger.Warn("cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
