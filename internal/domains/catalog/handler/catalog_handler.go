package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/domains/catalog/query"
	"library-backend/internal/shared/apperr"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

// ============================================================
// HANDLER STRUCT
// ============================================================
type CatalogHandler struct {
	service catalog.Service
	limits  utils.Limits
}

func NewCatalogHandler(svc catalog.Service, limits utils.Limits) *CatalogHandler {
	return &CatalogHandler{service: svc, limits: limits}
}

type bookDetailsResponse struct {
	*catalog.BookDetails
	// HeldByMe is true when the signed-in viewer holds the book.
	HeldByMe bool `json:"held_by_me"`
}

// ========== GET /books/search?q&category&sort&limit ==========
func (h *CatalogHandler) Search(c *gin.Context) {
	params := catalog.SearchParams{
		Term:     c.Query("q"),
		Category: c.DefaultQuery("category", query.CategoryAll),
		Sort:     query.ParseSort(c.Query("sort")),
		Limit:    utils.ParseLimit(c, h.limits.Search, h.limits.Max),
	}

	books, err := h.service.SearchBooks(c.Request.Context(), params)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{Limit: params.Limit, Count: len(books)})
}

// ========== GET /books/new ==========
func (h *CatalogHandler) New(c *gin.Context) {
	limit := utils.ParseLimit(c, h.limits.Default, h.limits.Max)
	books, err := h.service.GetNewBooks(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{Limit: limit, Count: len(books)})
}

// ========== GET /books/popular ==========
func (h *CatalogHandler) Popular(c *gin.Context) {
	limit := utils.ParseLimit(c, h.limits.Default, h.limits.Max)
	books, err := h.service.GetPopularBooks(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{Limit: limit, Count: len(books)})
}

// ========== GET /books/category/:categoryId ==========
func (h *CatalogHandler) ByCategory(c *gin.Context) {
	categoryID, err := utils.ParseUUIDParam(c, "categoryId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	limit := utils.ParseLimit(c, h.limits.Default, h.limits.Max)
	books, err := h.service.GetBooksByCategory(c.Request.Context(), categoryID, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{Limit: limit, Count: len(books)})
}

// ========== GET /books/:id ==========
// Optional auth: a signed-in viewer also learns whether they hold the book.
func (h *CatalogHandler) Details(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	details, err := h.service.GetBookDetailsWithStatus(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	resp := bookDetailsResponse{BookDetails: details}
	if viewer, ok := middleware.IdentityFrom(c); ok && details.BorrowerID != nil {
		resp.HeldByMe = *details.BorrowerID == viewer.UserID
	}
	response.Success(c, http.StatusOK, resp)
}

// ========== GET /books/:id/sources ==========
func (h *CatalogHandler) Sources(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	// 404 cho sách không tồn tại thay vì list rỗng
	if _, err := h.service.GetBookDetails(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	sources, err := h.service.GetBookSources(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sources)
}

// ========== GET /categories ==========
func (h *CatalogHandler) Categories(c *gin.Context) {
	categories, err := h.service.GetAllCategories(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// ========== POST /books (author only) ==========
func (h *CatalogHandler) Create(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req catalog.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperr.ErrValidation.WithMessage("malformed JSON body"))
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), actor, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, book)
}
