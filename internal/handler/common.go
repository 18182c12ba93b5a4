// Package handler contains the HTTP layer: request decoding, permission
// checks specific to a route, and response shaping. Business rules that need
// unit testing live below in auth, moderation and the repositories.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/auth"
	"github.com/sanadhub/donations-backend/internal/middleware"
	"github.com/sanadhub/donations-backend/internal/model"
)

const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context for repository calls.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// currentUserID returns the authenticated user's id, or 0 when the route is
// not wrapped by JWTAuth.
func currentUserID(c echo.Context) uint64 {
	if id, ok := c.Get(middleware.CtxUserID).(uint64); ok {
		return id
	}
	return 0
}

func currentRole(c echo.Context) string {
	if role, ok := c.Get(middleware.CtxRole).(string); ok {
		return role
	}
	return ""
}

func requestMeta(c echo.Context) auth.RequestMeta {
	return auth.RequestMeta{
		UserAgent: c.Request().UserAgent(),
		IP:        c.RealIP(),
	}
}

// pathID parses the named numeric path parameter; ok is false for anything
// that is not a positive integer.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// pagination reads ?page and ?limit with the platform defaults: page 1,
// limit 10, limit capped at 50.
func pagination(c echo.Context) (limit, offset, page int) {
	page = 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil && v > 0 {
		page = v
	}
	limit = 10
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > 50 {
		limit = 50
	}
	return limit, (page - 1) * limit, page
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c echo.Context, name string) *time.Time {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}

// parseDate parses an optional YYYY-MM-DD body field.
func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}

func optStr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// userJSON is the public shape of a user record; the password hash and the
// lockout counters never leave the server.
func userJSON(u model.User) echo.Map {
	return echo.Map{
		"id":                u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"role":              u.Role,
		"status":            u.Status,
		"preferredLanguage": u.PreferredLanguage,
		"created_at":        u.CreatedAt,
	}
}

// listMeta is the envelope for paginated collections.
func listMeta(total, page, limit int) echo.Map {
	return echo.Map{"total": total, "page": page, "limit": limit}
}
