package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/repository"
)

// SettingsHandler reads and writes the site-wide key/value settings.
type SettingsHandler struct {
	Settings *repository.SettingsRepo
}

func NewSettingsHandler(s *repository.SettingsRepo) *SettingsHandler {
	return &SettingsHandler{Settings: s}
}

// List returns all settings as a flat key/value map.
func (h *SettingsHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	settings, err := h.Settings.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return c.JSON(http.StatusOK, echo.Map{"settings": out})
}

func (h *SettingsHandler) Get(c echo.Context) error {
	key := c.Param("key")

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Settings.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "setting not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"key": s.Key, "value": s.Value, "updated_at": s.UpdatedAt})
}

type settingReq struct {
	Value string `json:"value"`
}

// Upsert writes a setting and records which admin changed it.
func (h *SettingsHandler) Upsert(c echo.Context) error {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid key"})
	}
	var req settingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Settings.Upsert(ctx, key, req.Value, currentUserID(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
