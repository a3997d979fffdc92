package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/learning-platform/internal/config"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func doRequest(e *echo.Echo, mw echo.MiddlewareFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = mw(okHandler)(c)
	return rec
}

func TestRateLimitAllowsWithinCapacity(t *testing.T) {
	e := echo.New()
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 3, RefillTokens: 1,
		RefillInterval: time.Minute, TTL: time.Hour, Prefix: "rl",
	}
	mw := RateLimit(cfg, testRedis(t))

	for i := 0; i < 3; i++ {
		rec := doRequest(e, mw, "/auth/login")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitBlocksWhenExhausted(t *testing.T) {
	e := echo.New()
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 2, RefillTokens: 1,
		RefillInterval: time.Minute, TTL: time.Hour, Prefix: "rl",
	}
	mw := RateLimit(cfg, testRedis(t))

	doRequest(e, mw, "/auth/login")
	doRequest(e, mw, "/auth/login")
	rec := doRequest(e, mw, "/auth/login")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitSetsHeaders(t *testing.T) {
	e := echo.New()
	cfg := config.RateLimitConfig{
		Enabled: true, Capacity: 5, RefillTokens: 1,
		RefillInterval: time.Minute, TTL: time.Hour, Prefix: "rl",
	}
	mw := RateLimit(cfg, testRedis(t))

	rec := doRequest(e, mw, "/auth/login")
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	e := echo.New()
	mw := RateLimit(config.RateLimitConfig{Enabled: false}, nil)
	for i := 0; i < 10; i++ {
		rec := doRequest(e, mw, "/auth/login")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitNilClientFailsOpen(t *testing.T) {
	e := echo.New()
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Minute, TTL: time.Hour, Prefix: "rl"}
	mw := RateLimit(cfg, nil)
	for i := 0; i < 5; i++ {
		rec := doRequest(e, mw, "/auth/login")
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
