package favorite

import "library-backend/internal/shared/apperr"

var (
	ErrAlreadyFavorite = apperr.Conflict("ALREADY_FAVORITE", "book already in favorites")
	ErrNotFavorite     = apperr.NotFound("FAVORITE_NOT_FOUND", "book not in favorites")
)
