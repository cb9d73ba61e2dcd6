package container

import (
	"context"
	"fmt"
	"time"

	"library-backend/internal/config"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/cache"
	"library-backend/pkg/hash"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"

	"library-backend/internal/domains/catalog"
	catalogHandler "library-backend/internal/domains/catalog/handler"
	catalogRepo "library-backend/internal/domains/catalog/repository"
	catalogService "library-backend/internal/domains/catalog/service"

	"library-backend/internal/domains/lending"
	lendingHandler "library-backend/internal/domains/lending/handler"
	lendingRepo "library-backend/internal/domains/lending/repository"
	lendingService "library-backend/internal/domains/lending/service"

	"library-backend/internal/domains/favorite"
	favoriteHandler "library-backend/internal/domains/favorite/handler"
	favoriteRepo "library-backend/internal/domains/favorite/repository"
	favoriteService "library-backend/internal/domains/favorite/service"

	"library-backend/internal/domains/user"
	userHandler "library-backend/internal/domains/user/handler"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"
)

const rateLimiterIdleTTL = 10 * time.Minute

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa tất cả dependencies của application, build một lần lúc start
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisCache // nil when Redis is unreachable
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Hasher     *hash.BcryptHasher

	// Repositories
	CatalogRepo  catalog.Repository
	LendingRepo  lending.Repository
	FavoriteRepo favorite.Repository
	UserRepo     user.Repository
	Sessions     user.SessionStore

	// Services
	CatalogService  catalog.Service
	LendingService  lending.Service
	FavoriteService favorite.Service
	UserService     user.Service

	// HTTP
	Auth            *middleware.Authenticator
	AuthLimiter     *middleware.IPRateLimiter
	CatalogHandler  *catalogHandler.CatalogHandler
	LendingHandler  *lendingHandler.LendingHandler
	FavoriteHandler *favoriteHandler.FavoriteHandler
	UserHandler     *userHandler.UserHandler
}

// NewContainer tạo và initialize toàn bộ dependency graph.
// Thứ tự: infrastructure → repositories → services → handlers
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger.Info("initializing container", map[string]interface{}{"env": cfg.App.Environment})

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	db := database.NewPostgresDB(cfg.Database)
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 2: CACHE
	// ========================================
	// Redis failure không critical: fallback sang in-process cache
	redisCache := infraCache.NewRedisCache(infraCache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
		Prefix:   "library:",
	})
	if err := redisCache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, using in-memory cache", map[string]interface{}{"error": err.Error()})
		_ = redisCache.Close()
		c.Cache = cache.NewMemoryCache()
	} else {
		c.Redis = redisCache
		c.Cache = redisCache
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.SessionTTL)
	c.Hasher = hash.NewBcryptHasher(cfg.Security.BcryptCost)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("container initialized", nil)
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.CatalogRepo = catalogRepo.NewPostgresRepository(pool)
	c.LendingRepo = lendingRepo.NewPostgresRepository(pool)
	c.FavoriteRepo = favoriteRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool, c.Cache)
	c.Sessions = userRepo.NewSessionStore(c.Cache)
}

func (c *Container) initServices() {
	c.CatalogService = catalogService.NewCatalogService(c.CatalogRepo, c.Cache, catalogService.CacheTTL{
		Categories: c.Config.Cache.CategoriesTTL,
		Sources:    c.Config.Cache.SourcesTTL,
	})
	c.LendingService = lendingService.NewLendingService(c.LendingRepo)
	c.FavoriteService = favoriteService.NewFavoriteService(c.FavoriteRepo)
	c.UserService = userService.NewUserService(userService.Deps{
		Repo:      c.UserRepo,
		Sessions:  c.Sessions,
		Hasher:    c.Hasher,
		Tokens:    c.JWTManager,
		Favorites: c.FavoriteService,
		Authored:  c.CatalogService,
	})
}

func (c *Container) initHandlers() {
	cfg := c.Config

	c.Auth = middleware.NewAuthenticator(c.JWTManager, c.Sessions, cfg.JWT.CookieName)
	c.AuthLimiter = middleware.NewIPRateLimiter(cfg.Security.AuthRateLimit, cfg.Security.AuthRateBurst, rateLimiterIdleTTL)

	c.CatalogHandler = catalogHandler.NewCatalogHandler(c.CatalogService, utils.Limits{
		Default: cfg.Security.DefaultLimit,
		Search:  cfg.Security.SearchLimit,
		Max:     cfg.Security.MaxListLimit,
	})
	c.LendingHandler = lendingHandler.NewLendingHandler(c.LendingService)
	c.FavoriteHandler = favoriteHandler.NewFavoriteHandler(c.FavoriteService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService, userHandler.CookieConfig{
		Name:   cfg.JWT.CookieName,
		Secure: cfg.JWT.CookieSecure,
	})
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("failed to close redis", err)
		}
	}
	logger.Info("container cleanup completed", nil)
}
