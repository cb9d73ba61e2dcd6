package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/domains/catalog/query"
	"library-backend/internal/shared"
	"library-backend/internal/shared/apperr"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/utils"
)

// --- MOCK SERVICE ---

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) books(args mock.Arguments) ([]catalog.Book, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Book), args.Error(1)
}

func (m *MockCatalogService) SearchBooks(ctx context.Context, params catalog.SearchParams) ([]catalog.Book, error) {
	return m.books(m.Called(ctx, params))
}

func (m *MockCatalogService) GetNewBooks(ctx context.Context, limit int) ([]catalog.Book, error) {
	return m.books(m.Called(ctx, limit))
}

func (m *MockCatalogService) GetPopularBooks(ctx context.Context, limit int) ([]catalog.Book, error) {
	return m.books(m.Called(ctx, limit))
}

func (m *MockCatalogService) GetBooksByCategory(ctx context.Context, categoryID uuid.UUID, limit int) ([]catalog.Book, error) {
	return m.books(m.Called(ctx, categoryID, limit))
}

func (m *MockCatalogService) GetBookDetails(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Book), args.Error(1)
}

func (m *MockCatalogService) GetBookDetailsWithStatus(ctx context.Context, id uuid.UUID) (*catalog.BookDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.BookDetails), args.Error(1)
}

func (m *MockCatalogService) GetBookSources(ctx context.Context, id uuid.UUID) ([]catalog.Source, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Source), args.Error(1)
}

func (m *MockCatalogService) GetAllCategories(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *MockCatalogService) ListAuthoredBy(ctx context.Context, authorID uuid.UUID) ([]catalog.Book, error) {
	return m.books(m.Called(ctx, authorID))
}

func (m *MockCatalogService) CreateBook(ctx context.Context, actor shared.Identity, req catalog.CreateBookRequest) (*catalog.Book, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Book), args.Error(1)
}

// --- SETUP ---

var limits = utils.Limits{Default: 20, Search: 10, Max: 100}

func setupRouter(svc *MockCatalogService, identity *shared.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if identity != nil {
		r.Use(func(c *gin.Context) {
			middleware.SetIdentity(c, *identity)
			c.Next()
		})
	}

	h := NewCatalogHandler(svc, limits)
	r.GET("/books/search", h.Search)
	r.GET("/books/new", h.New)
	r.GET("/books/popular", h.Popular)
	r.GET("/books/category/:categoryId", h.ByCategory)
	r.GET("/books/:id", h.Details)
	r.GET("/books/:id/sources", h.Sources)
	r.POST("/books", h.Create)
	r.GET("/categories", h.Categories)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Limit int `json:"limit"`
		Count int `json:"count"`
	} `json:"meta"`
}

func do(t *testing.T, r *gin.Engine, method, target string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

// --- TESTS ---

func TestSearch_DefaultsAndClamping(t *testing.T) {
	svc := new(MockCatalogService)
	r := setupRouter(svc, nil)

	svc.On("SearchBooks", mock.Anything, catalog.SearchParams{
		Term: "dune", Category: query.CategoryAll, Sort: query.SortTitle, Limit: 10,
	}).Return([]catalog.Book{{Title: "Dune"}}, nil)
	svc.On("SearchBooks", mock.Anything, catalog.SearchParams{
		Term: "", Category: "Fiction", Sort: query.SortNewest, Limit: 100,
	}).Return([]catalog.Book{}, nil)

	w, env := do(t, r, http.MethodGet, "/books/search?q=dune&sort=title", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, 1, env.Meta.Count)
	assert.Equal(t, 10, env.Meta.Limit)

	w, env = do(t, r, http.MethodGet, "/books/search?category=Fiction&sort=bogus&limit=500", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Meta.Count)
	assert.JSONEq(t, `[]`, string(env.Data))
	svc.AssertExpectations(t)
}

func TestNewAndPopular_DefaultLimit(t *testing.T) {
	svc := new(MockCatalogService)
	r := setupRouter(svc, nil)

	svc.On("GetNewBooks", mock.Anything, 20).Return([]catalog.Book{}, nil)
	svc.On("GetPopularBooks", mock.Anything, 5).Return([]catalog.Book{}, nil)

	w, _ := do(t, r, http.MethodGet, "/books/new", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = do(t, r, http.MethodGet, "/books/popular?limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestByCategory_InvalidID(t *testing.T) {
	svc := new(MockCatalogService)
	r := setupRouter(svc, nil)

	w, env := do(t, r, http.MethodGet, "/books/category/nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestDetails_NotFound(t *testing.T) {
	svc := new(MockCatalogService)
	r := setupRouter(svc, nil)
	id := uuid.New()

	svc.On("GetBookDetailsWithStatus", mock.Anything, id).Return(nil, catalog.ErrBookNotFound)

	w, env := do(t, r, http.MethodGet, "/books/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "BOOK_NOT_FOUND", env.Error.Code)
}

func TestDetails_HeldByViewer(t *testing.T) {
	svc := new(MockCatalogService)
	viewer := shared.Identity{UserID: uuid.New(), Role: shared.RoleReader}
	r := setupRouter(svc, &viewer)
	id := uuid.New()

	svc.On("GetBookDetailsWithStatus", mock.Anything, id).Return(&catalog.BookDetails{
		Book:    catalog.Book{ID: id, Title: "Dune", Status: "borrowed", BorrowerID: &viewer.UserID},
		Sources: []catalog.Source{},
	}, nil)

	w, env := do(t, r, http.MethodGet, "/books/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, true, data["held_by_me"])
	assert.Equal(t, "borrowed", data["status"])
	assert.Equal(t, "Dune", data["title"])
}

func TestSources_UnknownBook(t *testing.T) {
	svc := new(MockCatalogService)
	r := setupRouter(svc, nil)
	id := uuid.New()

	svc.On("GetBookDetails", mock.Anything, id).Return(nil, catalog.ErrBookNotFound)

	w, _ := do(t, r, http.MethodGet, "/books/"+id.String()+"/sources", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertNotCalled(t, "GetBookSources", mock.Anything, id)
}

func TestCategories_RepositoryErrorHidden(t *testing.T) {
	svc := new(MockCatalogService)
	r := setupRouter(svc, nil)

	svc.On("GetAllCategories", mock.Anything).Return(nil, apperr.ErrRepository.Wrap(assert.AnError))

	w, env := do(t, r, http.MethodGet, "/categories", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.Equal(t, "internal server error", env.Error.Message)
}

func TestCreate(t *testing.T) {
	author := shared.Identity{UserID: uuid.New(), Role: shared.RoleAuthor}
	req := catalog.CreateBookRequest{Title: "Dune", CategoryID: uuid.NewString()}

	t.Run("anonymous", func(t *testing.T) {
		svc := new(MockCatalogService)
		w, _ := do(t, setupRouter(svc, nil), http.MethodPost, "/books", req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("reader forbidden", func(t *testing.T) {
		svc := new(MockCatalogService)
		reader := shared.Identity{UserID: uuid.New(), Role: shared.RoleReader}
		svc.On("CreateBook", mock.Anything, reader, req).Return(nil, catalog.ErrAuthorOnly)

		w, env := do(t, setupRouter(svc, &reader), http.MethodPost, "/books", req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "AUTHOR_ROLE_REQUIRED", env.Error.Code)
	})

	t.Run("author created", func(t *testing.T) {
		svc := new(MockCatalogService)
		svc.On("CreateBook", mock.Anything, author, req).
			Return(&catalog.Book{ID: uuid.New(), Title: "Dune", IsPublished: true}, nil)

		w, env := do(t, setupRouter(svc, &author), http.MethodPost, "/books", req)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Success)
	})
}
