package middleware

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
)

// RequireRole must run after Authenticator.Required.
func RequireRole(roles ...shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Unauthorized(c, "authentication required")
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "access denied: insufficient role")
	}
}
