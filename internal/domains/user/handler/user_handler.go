package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/apperr"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type CookieConfig struct {
	Name   string
	Secure bool
}

type UserHandler struct {
	service user.Service
	cookie  CookieConfig
}

func NewUserHandler(svc user.Service, cookie CookieConfig) *UserHandler {
	return &UserHandler{service: svc, cookie: cookie}
}

var errMalformedBody = apperr.ErrValidation.WithMessage("malformed JSON body")

// ========================================
// AUTH
// ========================================

// Register - POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, errMalformedBody)
		return
	}

	dto, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, dto)
}

// Login - POST /auth/login, sets the session cookie and returns the token
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, errMalformedBody)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	maxAge := int(time.Until(resp.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, resp.Token, maxAge, "/", "", h.cookie.Secure, true)
	response.Success(c, http.StatusOK, resp)
}

// Logout - POST /auth/logout
func (h *UserHandler) Logout(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.service.Logout(c.Request.Context(), me); err != nil {
		response.FromError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// ========================================
// PROFILE
// ========================================

// GetProfile - GET /users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), me.UserID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile)
}

// UpdateProfile - PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FromError(c, errMalformedBody)
		return
	}

	dto, err := h.service.UpdateProfile(c.Request.Context(), me.UserID, req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, dto)
}
