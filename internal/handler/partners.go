package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/repository"
)

// PartnerHandler manages cooperating organizations.
type PartnerHandler struct {
	Partners *repository.PartnerRepo
}

func NewPartnerHandler(p *repository.PartnerRepo) *PartnerHandler { return &PartnerHandler{Partners: p} }

func partnerJSON(p model.Partner) echo.Map {
	return echo.Map{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"logo_url":    p.LogoURL,
		"website_url": p.WebsiteURL,
		"status":      p.Status,
		"created_at":  p.CreatedAt,
	}
}

func partnersJSON(partners []model.Partner) []echo.Map {
	out := make([]echo.Map, 0, len(partners))
	for _, p := range partners {
		out = append(out, partnerJSON(p))
	}
	return out
}

// ListPublic returns active partners only.
func (h *PartnerHandler) ListPublic(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	partners, err := h.Partners.List(ctx, true)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"partners": partnersJSON(partners)})
}

// GetPublic returns one partner; inactive partners read as missing.
func (h *PartnerHandler) GetPublic(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.Partners.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "partner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if p.Status != "active" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "partner not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"partner": partnerJSON(p)})
}

func (h *PartnerHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	partners, err := h.Partners.List(ctx, false)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"partners": partnersJSON(partners)})
}

type partnerReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
	WebsiteURL  string `json:"website_url"`
}

func (r partnerReq) toInput() (repository.PartnerInput, string) {
	if strings.TrimSpace(r.Name) == "" {
		return repository.PartnerInput{}, "name is required"
	}
	return repository.PartnerInput{
		Name:        strings.TrimSpace(r.Name),
		Description: optStr(r.Description),
		LogoURL:     optStr(r.LogoURL),
		WebsiteURL:  optStr(r.WebsiteURL),
	}, ""
}

func (h *PartnerHandler) Create(c echo.Context) error {
	var req partnerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, msg := req.toInput()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Partners.Create(ctx, in)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	p, err := h.Partners.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"partner": partnerJSON(p)})
}

func (h *PartnerHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req partnerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, msg := req.toInput()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Partners.Update(ctx, id, in); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "partner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	p, err := h.Partners.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"partner": partnerJSON(p)})
}

func (h *PartnerHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != "active" && req.Status != "inactive" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Partners.SetStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "partner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *PartnerHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Partners.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "partner not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
