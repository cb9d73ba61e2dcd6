package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/shared/apperr"
)

// Limits là cấu hình limit cho list endpoints
type Limits struct {
	Default int
	Search  int
	Max     int
}

// ParseUUIDParam đọc path param và parse thành UUID
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Invalid(name, "must be a valid UUID")
	}
	return id, nil
}

// ParseLimit reads ?limit, falling back to def when absent or not a number,
// and clamps the result to [1, max].
func ParseLimit(c *gin.Context, def, max int) int {
	limit := def
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	return ClampLimit(limit, max)
}

func ClampLimit(limit, max int) int {
	if limit < 1 {
		return 1
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}
