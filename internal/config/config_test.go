package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_NAME", "APP_ENV", "APP_PORT", "APP_VERSION", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"DB_MAX_CONNECTIONS", "DB_MIN_CONNECTIONS", "DB_MAX_RETRIES",
		"DB_MAX_CONN_LIFETIME", "DB_MAX_CONN_IDLE_TIME", "DB_HEALTH_CHECK_PERIOD",
		"DB_RETRY_DELAY", "DB_CONNECT_TIMEOUT",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_POOL_SIZE",
		"CACHE_CATEGORIES_TTL", "CACHE_SOURCES_TTL",
		"JWT_SECRET", "JWT_ISSUER", "JWT_SESSION_TTL", "SESSION_COOKIE_NAME", "SESSION_COOKIE_SECURE",
		"BCRYPT_COST", "AUTH_RATE_LIMIT", "AUTH_RATE_BURST",
		"LIST_DEFAULT_LIMIT", "SEARCH_DEFAULT_LIMIT", "LIST_MAX_LIMIT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWT.SessionTTL)
	assert.Equal(t, "library_session", cfg.JWT.CookieName)
	assert.Equal(t, 20, cfg.Security.DefaultLimit)
	assert.Equal(t, 10, cfg.Security.SearchLimit)
	assert.Equal(t, 100, cfg.Security.MaxListLimit)
	assert.Equal(t, 10*time.Minute, cfg.Cache.CategoriesTTL)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("JWT_SESSION_TTL", "2h")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("AUTH_RATE_LIMIT", "0.5")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.JWT.SessionTTL)
	assert.True(t, cfg.JWT.CookieSecure)
	assert.Equal(t, 0.5, cfg.Security.AuthRateLimit)
	assert.Equal(t, 0, cfg.Redis.DB, "invalid ints fall back to default")
}

func TestLoad_InvalidDatabaseConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_MIN_CONNECTIONS", "50")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_MIN_CONNECTIONS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "bad port", env: map[string]string{"APP_PORT": "http"}, wantErr: "APP_PORT"},
		{name: "bcrypt too low", env: map[string]string{"BCRYPT_COST": "3"}, wantErr: "BCRYPT_COST"},
		{name: "bcrypt too high", env: map[string]string{"BCRYPT_COST": "32"}, wantErr: "BCRYPT_COST"},
		{name: "max below default", env: map[string]string{"LIST_MAX_LIMIT": "5"}, wantErr: "LIST_MAX_LIMIT"},
		{
			name:    "production needs jwt secret",
			env:     map[string]string{"APP_ENV": "production"},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "production with secret",
			env:     map[string]string{"APP_ENV": "production", "JWT_SECRET": "a-real-secret"},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
