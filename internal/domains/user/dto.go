package user

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/shared"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     shared.Role `json:"role,omitempty"`
}

// Normalize trims identifiers and lower-cases the email.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(3, 50).Error("username must be 3-50 characters"),
			validation.Match(usernamePattern).Error("username may only contain letters, digits and underscores"),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.EmailFormat.Error("invalid email format"),
			validation.Length(3, 255),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			// bcrypt ignores everything past 72 bytes
			validation.Length(6, 72).Error("password must be 6-72 characters"),
		),
		validation.Field(&r.Role,
			validation.In(shared.RoleReader, shared.RoleAuthor).Error("role must be reader or author"),
		),
	)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserDTO   `json:"user"`
}

// ========================================
// PROFILE DTOs
// ========================================

// UpdateProfileRequest: nil fields are left unchanged.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DisplayName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.AvatarURL, is.URL),
	)
}

func (r UpdateProfileRequest) IsEmpty() bool {
	return r.DisplayName == nil && r.Bio == nil && r.AvatarURL == nil
}

type ProfileResponse struct {
	User          UserDTO        `json:"user"`
	Favorites     []catalog.Book `json:"favorites"`
	AuthoredBooks []catalog.Book `json:"authored_books,omitempty"`
}
