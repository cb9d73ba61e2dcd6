package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"
)

const identityKey = "identity"

type TokenValidator interface {
	ValidateSessionToken(token string) (*jwt.Claims, error)
}

// RevocationChecker reports whether a session was ended by logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

type Authenticator struct {
	tokens      TokenValidator
	revocations RevocationChecker
	cookieName  string
}

func NewAuthenticator(tokens TokenValidator, revocations RevocationChecker, cookieName string) *Authenticator {
	return &Authenticator{tokens: tokens, revocations: revocations, cookieName: cookieName}
}

// Required rejects the request with 401 unless a valid session is present.
func (a *Authenticator) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c, a.cookieName)
		if token == "" {
			response.Unauthorized(c, "authentication required")
			return
		}

		identity, ok := a.authenticate(c, token)
		if !ok {
			response.Unauthorized(c, "invalid or expired session")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// Optional attaches the identity when a valid session is present and lets
// anonymous requests through otherwise.
func (a *Authenticator) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := ExtractToken(c, a.cookieName); token != "" {
			if identity, ok := a.authenticate(c, token); ok {
				c.Set(identityKey, identity)
			}
		}
		c.Next()
	}
}

func (a *Authenticator) authenticate(c *gin.Context, token string) (shared.Identity, bool) {
	claims, err := a.tokens.ValidateSessionToken(token)
	if err != nil {
		return shared.Identity{}, false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return shared.Identity{}, false
	}

	if a.revocations != nil {
		revoked, err := a.revocations.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// Redis down: accept the signed token rather than lock everyone out
			logger.Warn("session revocation check failed", map[string]interface{}{
				"session_id": claims.ID,
				"error":      err.Error(),
			})
		} else if revoked {
			return shared.Identity{}, false
		}
	}

	identity := shared.Identity{
		UserID:    userID,
		Username:  claims.Username,
		Role:      shared.Role(claims.Role),
		SessionID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, true
}

// ExtractToken reads "Authorization: Bearer <token>", falling back to the
// session cookie.
func ExtractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil {
			return v
		}
	}
	return ""
}

func IdentityFrom(c *gin.Context) (shared.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return shared.Identity{}, false
	}
	id, ok := v.(shared.Identity)
	return id, ok
}

// SetIdentity is used by tests and by handlers that authenticate inline.
func SetIdentity(c *gin.Context, id shared.Identity) {
	c.Set(identityKey, id)
}
