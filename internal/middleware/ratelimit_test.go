package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/sanadhub/donations-backend/internal/config"
)

func newLimitedEcho(t *testing.T, cfg config.RateLimitConfig) (*echo.Echo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	e := echo.New()
	e.POST("/api/auth/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}, RateLimit(cfg, rdb))
	return e, mr
}

func doLogin(e *echo.Echo) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.1.2.3:55555"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitBlocksAfterMax(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Max: 3, Window: time.Minute, Prefix: "rl"}
	e, _ := newLimitedEcho(t, cfg)

	for i := 0; i < 3; i++ {
		if rec := doLogin(e); rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, rec.Code)
		}
	}
	rec := doLogin(e)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Max: 1, Window: time.Minute, Prefix: "rl"}
	e, mr := newLimitedEcho(t, cfg)

	if rec := doLogin(e); rec.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", rec.Code)
	}
	if rec := doLogin(e); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: got %d, want 429", rec.Code)
	}

	mr.FastForward(2 * time.Minute)

	if rec := doLogin(e); rec.Code != http.StatusOK {
		t.Fatalf("after window: got %d, want 200", rec.Code)
	}
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false, Max: 1, Window: time.Minute, Prefix: "rl"}
	e, _ := newLimitedEcho(t, cfg)

	for i := 0; i < 5; i++ {
		if rec := doLogin(e); rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRateLimitNilClientPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Max: 1, Window: time.Minute, Prefix: "rl"}
	e := echo.New()
	e.POST("/api/auth/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	}, RateLimit(cfg, nil))

	for i := 0; i < 5; i++ {
		if rec := doLogin(e); rec.Code != http.StatusOK {
			t.Fatalf("request %d: got %d, want 200", i+1, rec.Code)
		}
	}
}
