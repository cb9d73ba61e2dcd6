package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"library-backend/internal/infrastructure/database"
)

const defaultJWTSecret = "change-me-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig
	Database *database.DBConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	Security SecurityConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	CORSOrigins []string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// CacheConfig controls TTLs of catalog read caches.
type CacheConfig struct {
	CategoriesTTL time.Duration
	SourcesTTL    time.Duration
}

type JWTConfig struct {
	Secret       string
	Issuer       string
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool
}

type SecurityConfig struct {
	BcryptCost    int
	AuthRateLimit float64 // requests per second per client IP
	AuthRateBurst int
	DefaultLimit  int
	SearchLimit   int
	MaxListLimit  int
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	dbCfg, err := LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("database config: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Library API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: dbCfg,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			PoolSize: getEnvInt("REDIS_POOL_SIZE", 10),
		},
		Cache: CacheConfig{
			CategoriesTTL: getEnvDuration("CACHE_CATEGORIES_TTL", 10*time.Minute),
			SourcesTTL:    getEnvDuration("CACHE_SOURCES_TTL", time.Hour),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", defaultJWTSecret),
			Issuer:       getEnv("JWT_ISSUER", "library-backend"),
			SessionTTL:   getEnvDuration("JWT_SESSION_TTL", 24*time.Hour),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "library_session"),
			CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
		},
		Security: SecurityConfig{
			BcryptCost:    getEnvInt("BCRYPT_COST", 10),
			AuthRateLimit: getEnvFloat("AUTH_RATE_LIMIT", 5),
			AuthRateBurst: getEnvInt("AUTH_RATE_BURST", 10),
			DefaultLimit:  getEnvInt("LIST_DEFAULT_LIMIT", 20),
			SearchLimit:   getEnvInt("SEARCH_DEFAULT_LIMIT", 10),
			MaxListLimit:  getEnvInt("LIST_MAX_LIMIT", 100),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra config có hợp lệ không
func (c *Config) Validate() error {
	if port, err := strconv.Atoi(c.App.Port); err != nil || port <= 0 {
		return fmt.Errorf("APP_PORT must be a positive integer, got %q", c.App.Port)
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Security.BcryptCost)
	}
	if c.Security.DefaultLimit <= 0 || c.Security.SearchLimit <= 0 {
		return fmt.Errorf("list limits must be positive")
	}
	if c.Security.MaxListLimit < c.Security.DefaultLimit {
		return fmt.Errorf("LIST_MAX_LIMIT must be >= LIST_DEFAULT_LIMIT")
	}
	if c.JWT.SessionTTL <= 0 {
		return fmt.Errorf("JWT_SESSION_TTL must be positive")
	}

	// Production environment phải có JWT secret
	if c.IsProduction() {
		if c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
