package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/favorite"
	"library-backend/internal/shared/apperr"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

type FavoriteHandler struct {
	service favorite.Service
}

func NewFavoriteHandler(svc favorite.Service) *FavoriteHandler {
	return &FavoriteHandler{service: svc}
}

// List - GET /users/me/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	books, err := h.service.List(c.Request.Context(), me.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{Count: len(books)})
}

// Add - POST /users/me/favorites {book_id}
func (h *FavoriteHandler) Add(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req favorite.AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, apperr.ErrValidation.WithMessage("malformed JSON body"))
		return
	}

	if err := h.service.Add(c.Request.Context(), me.UserID, req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"book_id": req.BookID})
}

// Remove - DELETE /users/me/favorites/:bookId
func (h *FavoriteHandler) Remove(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	bookID, err := utils.ParseUUIDParam(c, "bookId")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := h.service.Remove(c.Request.Context(), me.UserID, bookID); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
