package shared

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleReader Role = "reader"
	RoleAuthor Role = "author"
)

func (r Role) Valid() bool {
	return r == RoleReader || r == RoleAuthor
}

// Identity là user đã xác thực từ session (để tránh import cycle với user domain)
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     Role
	// SessionID is the jti of the session token.
	SessionID string
	ExpiresAt time.Time
}

func (i Identity) IsAuthor() bool { return i.Role == RoleAuthor }
