package user

import (
	"time"

	"github.com/google/uuid"

	"library-backend/internal/shared"
)

// User là domain entity, ánh xạ 1:1 với bảng users
type User struct {
	ID           uuid.UUID   `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Role         shared.Role `json:"role"`
	DisplayName  string      `json:"display_name"`
	Bio          *string     `json:"bio,omitempty"`
	AvatarURL    *string     `json:"avatar_url,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// UserDTO is the public projection of an account: no password digest.
type UserDTO struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Role        shared.Role `json:"role"`
	DisplayName string      `json:"display_name"`
	Bio         *string     `json:"bio,omitempty"`
	AvatarURL   *string     `json:"avatar_url,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (u *User) Identity() shared.Identity {
	return shared.Identity{UserID: u.ID, Username: u.Username, Role: u.Role}
}
