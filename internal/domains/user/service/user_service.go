package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/catalog"
	"library-backend/internal/domains/user"
	"library-backend/internal/shared"
	"library-backend/internal/shared/apperr"
	"library-backend/pkg/logger"
)

// userService implement user.Service interface
type userService struct {
	repo      user.Repository
	sessions  user.SessionStore
	hasher    user.PasswordHasher
	tokens    user.TokenIssuer
	favorites user.FavoritesReader
	authored  user.AuthoredBooksReader
	now       func() time.Time
}

type Deps struct {
	Repo      user.Repository
	Sessions  user.SessionStore
	Hasher    user.PasswordHasher
	Tokens    user.TokenIssuer
	Favorites user.FavoritesReader
	Authored  user.AuthoredBooksReader
}

// NewUserService tạo service instance, inject dependencies qua constructor
func NewUserService(d Deps) user.Service {
	return &userService{
		repo:      d.Repo,
		sessions:  d.Sessions,
		hasher:    d.Hasher,
		tokens:    d.Tokens,
		favorites: d.Favorites,
		authored:  d.Authored,
		now:       time.Now,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.UserDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	// email trước, username sau
	taken, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, user.ErrEmailTaken
	}
	taken, err = s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, user.ErrUsernameTaken
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = shared.RoleReader
	}

	u := &user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: digest,
		Role:         role,
		DisplayName:  req.Username,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{
		"user_id":  u.ID.String(),
		"username": u.Username,
		"role":     string(u.Role),
	})

	dto := u.ToDTO()
	return &dto, nil
}

// Login trả cùng một lỗi cho user không tồn tại và sai mật khẩu
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	u, err := s.repo.FindByUsername(ctx, req.Username)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(req.Password, u.PasswordHash)
	if err != nil {
		logger.Error("password verify failed", err, map[string]interface{}{"user_id": u.ID.String()})
		return nil, user.ErrInvalidCredentials
	}
	if !ok {
		return nil, user.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.GenerateSessionToken(u.ID.String(), u.Username, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &user.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      u.ToDTO(),
	}, nil
}

func (s *userService) Logout(ctx context.Context, identity shared.Identity) error {
	if identity.SessionID == "" {
		return nil
	}
	ttl := identity.ExpiresAt.Sub(s.now())
	if err := s.sessions.Revoke(ctx, identity.SessionID, ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	logger.Info("user logged out", map[string]interface{}{
		"user_id":    identity.UserID.String(),
		"session_id": identity.SessionID,
	})
	return nil
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.ProfileResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	favorites := make([]catalog.Book, 0)
	if s.favorites != nil {
		if favorites, err = s.favorites.List(ctx, userID); err != nil {
			return nil, err
		}
	}

	profile := &user.ProfileResponse{User: u.ToDTO(), Favorites: favorites}

	if u.Role == shared.RoleAuthor && s.authored != nil {
		if profile.AuthoredBooks, err = s.authored.ListAuthoredBy(ctx, userID); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest) (*user.UserDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation(err)
	}

	u, err := s.repo.UpdateProfile(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}
