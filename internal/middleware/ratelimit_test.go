package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/claimtrack-api/internal/middleware"
)

func TestRateLimitPerClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{Rate: 1, Burst: 2})
	engine.Use(limiter.RateLimit())
	engine.GET("/claims", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/claims", nil)
		req.RemoteAddr = ip + ":52000"
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"), "burst exhausted")

	// Each client gets its own bucket.
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}
