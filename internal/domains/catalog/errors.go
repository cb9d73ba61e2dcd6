package catalog

import "library-backend/internal/shared/apperr"

var (
	ErrBookNotFound     = apperr.NotFound("BOOK_NOT_FOUND", "book not found")
	ErrCategoryNotFound = apperr.NotFound("CATEGORY_NOT_FOUND", "category not found")
	ErrAuthorOnly       = apperr.Forbidden("AUTHOR_ROLE_REQUIRED", "only authors can create books")
	ErrUnknownCategory  = apperr.Invalid("category_id", "category does not exist")
)
