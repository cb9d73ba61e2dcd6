package user

import "library-backend/internal/shared/apperr"

var (
	ErrUserNotFound       = apperr.NotFound("USER_NOT_FOUND", "user not found")
	ErrEmailTaken         = apperr.Conflict("EMAIL_TAKEN", "email already registered")
	ErrUsernameTaken      = apperr.Conflict("USERNAME_TAKEN", "username already taken")
	ErrInvalidCredentials = apperr.Unauthorized("INVALID_CREDENTIALS", "invalid username or password")
)
