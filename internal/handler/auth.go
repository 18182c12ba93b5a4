package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/auth"
	"github.com/sanadhub/donations-backend/internal/config"
	"github.com/sanadhub/donations-backend/internal/repository"
)

// refreshCookieName is the HTTP-only cookie carrying the refresh token. It
// is scoped to the auth routes so browsers never attach it elsewhere.
const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/auth"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Auth  *auth.Service
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, svc *auth.Service, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: svc, Users: users}
}

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // donor | beneficiary
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authError maps the auth package's sentinel errors onto HTTP responses.
// Anything unrecognized is a storage fault and surfaces as a 500.
func authError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid input"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrAccountLocked):
		return c.JSON(http.StatusLocked, echo.Map{"error": "account temporarily locked, try again later"})
	case errors.Is(err, auth.ErrAccountInactive):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account is not active"})
	case errors.Is(err, auth.ErrMissingToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing refresh token"})
	case errors.Is(err, auth.ErrInvalidToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// Register creates an account and returns an access token immediately. No
// refresh session is opened; the client logs in to get one.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	token, user, err := h.Auth.Register(ctx, req.Name, req.Email, req.Password, req.Role, requestMeta(c))
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token, "user": userJSON(user)})
}

// Login verifies credentials, opens a refresh session, and sets the refresh
// token as an HTTP-only cookie alongside the access token in the body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Email, req.Password, requestMeta(c))
	if err != nil {
		return authError(c, err)
	}

	h.setRefreshCookie(c, res.RefreshToken, h.Auth.Codec.RefreshTTL())
	return c.JSON(http.StatusOK, echo.Map{"token": res.AccessToken, "user": userJSON(res.User)})
}

// Refresh exchanges the refresh cookie for a new access token. The cookie is
// left untouched; refresh tokens are not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := ""
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		raw = cookie.Value
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	token, err := h.Auth.Refresh(ctx, raw, requestMeta(c))
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// Logout revokes the presented session and clears the cookie. It always
// answers 200 unless the revocation write itself fails; logging out twice
// is not an error.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw := ""
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		raw = cookie.Value
	}

	var actor *uint64
	if id := currentUserID(c); id != 0 {
		actor = &id
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, raw, actor, requestMeta(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}

	h.setRefreshCookie(c, "", -time.Hour)
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	user, err := h.Users.FindByID(ctx, currentUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown user"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": userJSON(user)})
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, value string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     refreshCookiePath,
		MaxAge:   int(ttl / time.Second),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.Cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}
