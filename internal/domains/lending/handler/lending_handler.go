package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/lending"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

type LendingHandler struct {
	service lending.Service
}

func NewLendingHandler(svc lending.Service) *LendingHandler {
	return &LendingHandler{service: svc}
}

type transitionFunc func(ctx context.Context, actor, bookID uuid.UUID) (lending.Status, error)

// ========== GET /books/:id/status ==========
func (h *LendingHandler) Status(c *gin.Context) {
	bookID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), bookID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lending.NewStatusView(bookID, status))
}

// POST /books/:id/reserve
func (h *LendingHandler) Reserve(c *gin.Context) { h.transition(c, h.service.Reserve) }

// DELETE /books/:id/reserve
func (h *LendingHandler) CancelReservation(c *gin.Context) {
	h.transition(c, h.service.CancelReservation)
}

// POST /books/:id/borrow
func (h *LendingHandler) Borrow(c *gin.Context) { h.transition(c, h.service.Borrow) }

// POST /books/:id/return
func (h *LendingHandler) Return(c *gin.Context) { h.transition(c, h.service.ReturnBook) }

func (h *LendingHandler) transition(c *gin.Context, fn transitionFunc) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	bookID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	status, err := fn(c.Request.Context(), actor.UserID, bookID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, lending.NewStatusView(bookID, status))
}

// ========== GET /users/me/reservations ==========
func (h *LendingHandler) MyReservations(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	books, err := h.service.ListReserved(c.Request.Context(), me.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{Count: len(books)})
}

// ========== GET /users/me/loans ==========
func (h *LendingHandler) MyLoans(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	books, err := h.service.ListBorrowed(c.Request.Context(), me.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, books, &response.Meta{Count: len(books)})
}
