package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/apperr"
	"library-backend/pkg/cache"
	"library-backend/pkg/logger"
)

const (
	uniqueViolation = "23505"
	userCacheTTL    = 10 * time.Minute
)

const userColumns = `
	id, username, email, password_hash, role,
	COALESCE(display_name, username), bio, avatar_url, created_at, updated_at
`

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository tạo repository instance. cache may be nil.
func NewPostgresRepository(pool *pgxpool.Pool, c cache.Cache) user.Repository {
	return &postgresRepository{pool: pool, cache: c}
}

func userCacheKey(id uuid.UUID) string { return "user:" + id.String() }

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.DisplayName,
		&u.Bio,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts u and fills ID and timestamps.
func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	const query = `
		INSERT INTO users (username, email, password_hash, role, display_name, bio, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.DisplayName,
		u.Bio,
		u.AvatarURL,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		// Hai request đăng ký cùng lúc: unique index là chốt chặn cuối
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "users_email_key":
				return user.ErrEmailTaken
			case "users_username_key":
				return user.ErrUsernameTaken
			}
		}
		return apperr.Repository("user.Create", err)
	}
	return nil
}

// FindByID dùng cache-aside. The cached copy has no password digest, so
// it must not be used for credential checks.
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	key := userCacheKey(id)
	if r.cache != nil {
		var cached user.User
		found, err := r.cache.Get(ctx, key, &cached)
		if err == nil && found {
			return &cached, nil
		}
		if err != nil {
			logger.Warn("user cache get failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	u, err := scanUser(r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Repository("user.FindByID", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, u, userCacheTTL); err != nil {
			logger.Warn("user cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
	return u, nil
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Repository("user.FindByUsername", err)
	}
	return u, nil
}

func (r *postgresRepository) exists(ctx context.Context, op, column, value string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM users WHERE %s = $1)", column)
	if err := r.pool.QueryRow(ctx, query, value).Scan(&exists); err != nil {
		return false, apperr.Repository(op, err)
	}
	return exists, nil
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "user.ExistsByEmail", "email", email)
}

func (r *postgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "user.ExistsByUsername", "username", username)
}

// UpdateProfile chỉ cập nhật các field được truyền; updated_at luôn đổi
func (r *postgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, req user.UpdateProfileRequest) (*user.User, error) {
	query := `
		UPDATE users
		SET display_name = COALESCE($2, display_name),
		    bio          = COALESCE($3, bio),
		    avatar_url   = COALESCE($4, avatar_url),
		    updated_at   = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(r.pool.QueryRow(ctx, query, id, req.DisplayName, req.Bio, req.AvatarURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Repository("user.UpdateProfile", err)
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, userCacheKey(id)); err != nil {
			logger.Warn("user cache invalidate failed", map[string]interface{}{"user_id": id.String(), "error": err.Error()})
		}
	}
	return u, nil
}
