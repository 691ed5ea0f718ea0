package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 5) // 10 per minute, burst of 5
	defer rl.Stop()

	// First 5 requests should be allowed (burst)
	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("ws:1"), "request %d should be allowed", i+1)
	}

	// 6th request exceeds the burst
	assert.False(t, rl.Allow("ws:1"))
}

func TestRateLimiter_DifferentClients(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("ws:1"))
	}
	assert.False(t, rl.Allow("ws:1"))

	// Other clients keep their full burst
	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("ws:2"))
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	rl := NewRateLimiterWithConfig(0, 0)
	defer rl.Stop()
	rl.Stop() // Stopping twice is safe

	assert.Equal(t, DefaultRateLimit, rl.Limit())
	remaining, _ := rl.GetState("unknown")
	assert.Equal(t, DefaultBurstSize, remaining)
}

func TestRateLimiter_EvictStale(t *testing.T) {
	rl := NewRateLimiterWithConfig(10, 3)
	defer rl.Stop()

	rl.Allow("ip:10.0.0.1")
	rl.evictStale(time.Now().Add(LimiterTTL + time.Minute))

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Empty(t, rl.limiters)
}

func serveLimited(rl *RateLimiter, workspaceID int32) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculations/dscr", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if workspaceID != 0 {
		ctx := context.WithValue(c.Request().Context(), WorkspaceIDKey, workspaceID)
		c.SetRequest(c.Request().WithContext(ctx))
	}

	_ = RateLimitMiddleware(rl)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec
}

func TestRateLimitMiddleware_SetsHeaders(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 2)
	defer rl.Stop()

	rec := serveLimited(rl, 7)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))
}

func TestRateLimitMiddleware_RejectsOverBudget(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 2)
	defer rl.Stop()

	assert.Equal(t, http.StatusOK, serveLimited(rl, 7).Code)
	assert.Equal(t, http.StatusOK, serveLimited(rl, 7).Code)

	rec := serveLimited(rl, 7)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), errorTypeRateLimit)

	// Another workspace from the same address is unaffected
	assert.Equal(t, http.StatusOK, serveLimited(rl, 8).Code)
}

func TestRateLimitMiddleware_KeysAnonymousByIP(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1)
	defer rl.Stop()

	assert.Equal(t, http.StatusOK, serveLimited(rl, 0).Code)
	assert.Equal(t, http.StatusTooManyRequests, serveLimited(rl, 0).Code)

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Contains(t, rl.limiters, "ip:192.0.2.10")
}
