package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"library-backend/internal/config"
	"library-backend/pkg/logger"
)

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env chỉ dùng cho local, production dùng system env
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Init("development", "info")
		logger.Fatal("failed to load config", err)
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	if envErr != nil {
		logger.Debug("no .env file found, using system environment variables", nil)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	Serve(cfg)
}
