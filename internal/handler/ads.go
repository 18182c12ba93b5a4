package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/repository"
)

// AdHandler serves public banners and the admin CRUD behind them.
type AdHandler struct {
	Ads *repository.AdRepo
}

func NewAdHandler(ads *repository.AdRepo) *AdHandler { return &AdHandler{Ads: ads} }

func adJSON(a model.Advertisement) echo.Map {
	return echo.Map{
		"id":          a.ID,
		"title":       a.Title,
		"description": a.Description,
		"image_url":   a.ImageURL,
		"link_url":    a.LinkURL,
		"category":    a.Category,
		"status":      a.Status,
		"start_date":  a.StartDate,
		"end_date":    a.EndDate,
		"created_at":  a.CreatedAt,
	}
}

func adsJSON(ads []model.Advertisement) []echo.Map {
	out := make([]echo.Map, 0, len(ads))
	for _, a := range ads {
		out = append(out, adJSON(a))
	}
	return out
}

// ListPublic returns banners that are active and inside their date window.
func (h *AdHandler) ListPublic(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ads, err := h.Ads.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ads": adsJSON(ads)})
}

func (h *AdHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	ads, err := h.Ads.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ads": adsJSON(ads)})
}

type adReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	LinkURL     string `json:"link_url"`
	Category    string `json:"category"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (r adReq) toInput() (repository.AdInput, string) {
	if strings.TrimSpace(r.Title) == "" {
		return repository.AdInput{}, "title is required"
	}
	category := r.Category
	if category == "" {
		category = "general"
	}
	in := repository.AdInput{
		Title:       strings.TrimSpace(r.Title),
		Description: optStr(r.Description),
		ImageURL:    optStr(r.ImageURL),
		LinkURL:     optStr(r.LinkURL),
		Category:    category,
		StartDate:   parseDate(r.StartDate),
		EndDate:     parseDate(r.EndDate),
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return repository.AdInput{}, "end_date must not precede start_date"
	}
	return in, ""
}

func (h *AdHandler) Create(c echo.Context) error {
	var req adReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, msg := req.toInput()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Ads.Create(ctx, in, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	ad, err := h.Ads.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"ad": adJSON(ad)})
}

func (h *AdHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req adReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, msg := req.toInput()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Ads.Update(ctx, id, in); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	ad, err := h.Ads.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ad": adJSON(ad)})
}

func (h *AdHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidAdStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Ads.SetStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *AdHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Ads.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ad not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
