package repository

import (
	"context"
	"time"

	"library-backend/internal/domains/user"
	"library-backend/pkg/cache"
)

const revokedSessionPrefix = "session:revoked:"

type cacheSessionStore struct {
	cache cache.Cache
}

// NewSessionStore keeps the logout denylist in the shared cache (Redis in
// production).
func NewSessionStore(c cache.Cache) user.SessionStore {
	return &cacheSessionStore{cache: c}
}

func (s *cacheSessionStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		// token đã hết hạn, không cần lưu
		return nil
	}
	return s.cache.Set(ctx, revokedSessionPrefix+sessionID, true, ttl)
}

func (s *cacheSessionStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	return s.cache.Exists(ctx, revokedSessionPrefix+sessionID)
}
