package main

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/shared"
	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

// SetupRouter là route table duy nhất của API
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
	)

	v1 := router.Group("/api/v1")

	v1.GET("/health", healthHandler(c.Config.App.Version, healthChecksFor(c)))

	setupAuthRoutes(v1, c)
	setupBookRoutes(v1, c)
	setupCategoryRoutes(v1, c)
	setupUserRoutes(v1, c)

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(c.AuthLimiter))
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/logout", c.Auth.Required(), c.UserHandler.Logout)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	{
		books.GET("/search", c.CatalogHandler.Search)
		books.GET("/new", c.CatalogHandler.New)
		books.GET("/popular", c.CatalogHandler.Popular)
		books.GET("/category/:categoryId", c.CatalogHandler.ByCategory)
		books.GET("/:id", c.Auth.Optional(), c.CatalogHandler.Details)
		books.GET("/:id/sources", c.CatalogHandler.Sources)
		books.GET("/:id/status", c.LendingHandler.Status)

		books.POST("", c.Auth.Required(), middleware.RequireRole(shared.RoleAuthor), c.CatalogHandler.Create)
	}

	// Lending: mọi transition đều cần session
	lending := books.Group("/:id")
	lending.Use(c.Auth.Required())
	{
		lending.POST("/reserve", c.LendingHandler.Reserve)
		lending.DELETE("/reserve", c.LendingHandler.CancelReservation)
		lending.POST("/borrow", c.LendingHandler.Borrow)
		lending.POST("/return", c.LendingHandler.Return)
	}
}

// ========================================
// CATEGORY ROUTES
// ========================================
func setupCategoryRoutes(v1 *gin.RouterGroup, c *container.Container) {
	v1.GET("/categories", c.CatalogHandler.Categories)
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	me := v1.Group("/users/me")
	me.Use(c.Auth.Required())
	{
		me.GET("", c.UserHandler.GetProfile)
		me.PUT("", c.UserHandler.UpdateProfile)

		me.GET("/reservations", c.LendingHandler.MyReservations)
		me.GET("/loans", c.LendingHandler.MyLoans)

		me.GET("/favorites", c.FavoriteHandler.List)
		me.POST("/favorites", c.FavoriteHandler.Add)
		me.DELETE("/favorites/:bookId", c.FavoriteHandler.Remove)
	}
}
