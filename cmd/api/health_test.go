package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func callHealth(t *testing.T, checks []healthCheck) (int, map[string]interface{}) {
	t.Helper()
	r := gin.New()
	r.GET("/health", healthHandler("test", checks))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func healthy(context.Context) error { return nil }

func TestHealth_AllHealthy(t *testing.T) {
	code, body := callHealth(t, []healthCheck{
		{name: "database", critical: true, check: healthy},
		{name: "redis", check: healthy},
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "ok", services["database"])
	assert.Equal(t, "ok", services["redis"])
}

func TestHealth_DatabaseDownIsDegraded(t *testing.T) {
	code, body := callHealth(t, []healthCheck{
		{name: "database", critical: true, check: func(context.Context) error { return errors.New("connection refused") }},
		{name: "redis", check: healthy},
	})

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "error: connection refused", services["database"])
}

func TestHealth_RedisFailureIsNotCritical(t *testing.T) {
	code, body := callHealth(t, []healthCheck{
		{name: "database", critical: true, check: healthy},
		{name: "redis", check: func(context.Context) error { return errors.New("timeout") }},
	})

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "error: timeout", body["services"].(map[string]interface{})["redis"])
}

func TestHealth_NoRedisReportsFallback(t *testing.T) {
	_, body := callHealth(t, []healthCheck{{name: "database", critical: true, check: healthy}})

	assert.Equal(t, "disabled (in-memory cache)", body["services"].(map[string]interface{})["redis"])
}
