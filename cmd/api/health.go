package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/pkg/container"
)

const healthCheckTimeout = 2 * time.Second

type healthCheck struct {
	name     string
	critical bool // a failing critical check degrades the overall status
	check    func(ctx context.Context) error
}

func healthChecksFor(c *container.Container) []healthCheck {
	checks := []healthCheck{
		{name: "database", critical: true, check: c.DB.HealthCheck},
	}
	if c.Redis != nil {
		checks = append(checks, healthCheck{name: "redis", check: c.Redis.Ping})
	}
	return checks
}

func healthHandler(version string, checks []healthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		services := gin.H{}

		for _, hc := range checks {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			err := hc.check(ctx)
			cancel()

			if err != nil {
				services[hc.name] = "error: " + err.Error()
				if hc.critical {
					status = "degraded"
				}
				continue
			}
			services[hc.name] = "ok"
		}
		if _, ok := services["redis"]; !ok {
			services["redis"] = "disabled (in-memory cache)"
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
			"services":  services,
		})
	}
}
