package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/repository"
)

// CampaignHandler covers the public campaign listing and the admin CRUD.
type CampaignHandler struct {
	Campaigns *repository.CampaignRepo
}

func NewCampaignHandler(campaigns *repository.CampaignRepo) *CampaignHandler {
	return &CampaignHandler{Campaigns: campaigns}
}

func campaignJSON(cp model.Campaign) echo.Map {
	return echo.Map{
		"id":            cp.ID,
		"title":         cp.Title,
		"description":   cp.Description,
		"target_amount": cp.TargetAmount,
		"raised_amount": cp.RaisedAmount,
		"category":      cp.Category,
		"status":        cp.Status,
		"image_url":     cp.ImageURL,
		"start_date":    cp.StartDate,
		"end_date":      cp.EndDate,
		"created_by":    cp.CreatedBy,
		"creator_name":  cp.CreatorName,
		"created_at":    cp.CreatedAt,
		"updated_at":    cp.UpdatedAt,
	}
}

// ListPublic returns active campaigns with optional category and title
// filters. Anyone may call it.
func (h *CampaignHandler) ListPublic(c echo.Context) error {
	f := repository.CampaignFilter{
		Status:   "active",
		Category: c.QueryParam("category"),
		Query:    c.QueryParam("q"),
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	campaigns, err := h.Campaigns.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(campaigns))
	for _, cp := range campaigns {
		out = append(out, campaignJSON(cp))
	}
	return c.JSON(http.StatusOK, echo.Map{"campaigns": out})
}

// GetPublic returns one campaign when it is publicly visible. Anything not
// active reads as missing so drafts and rejected campaigns stay hidden.
func (h *CampaignHandler) GetPublic(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cp, err := h.Campaigns.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if cp.Status != "active" && cp.Status != "completed" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"campaign": campaignJSON(cp)})
}

// List is the admin view: any status, same filters.
func (h *CampaignHandler) List(c echo.Context) error {
	f := repository.CampaignFilter{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Query:    c.QueryParam("q"),
	}
	if f.Status != "" && !model.ValidCampaignStatus(f.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	campaigns, err := h.Campaigns.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(campaigns))
	for _, cp := range campaigns {
		out = append(out, campaignJSON(cp))
	}
	return c.JSON(http.StatusOK, echo.Map{"campaigns": out})
}

func (h *CampaignHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cp, err := h.Campaigns.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"campaign": campaignJSON(cp)})
}

type campaignReq struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	TargetAmount float64 `json:"target_amount"`
	Category     string  `json:"category"`
	ImageURL     string  `json:"image_url"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
}

func (r campaignReq) toInput() (repository.CampaignInput, string) {
	if r.Title == "" || r.Description == "" {
		return repository.CampaignInput{}, "title and description are required"
	}
	if r.TargetAmount <= 0 {
		return repository.CampaignInput{}, "target_amount must be positive"
	}
	if !model.ValidCampaignCategory(r.Category) {
		return repository.CampaignInput{}, "invalid category"
	}
	in := repository.CampaignInput{
		Title:        r.Title,
		Description:  r.Description,
		TargetAmount: r.TargetAmount,
		Category:     r.Category,
		ImageURL:     optStr(r.ImageURL),
		StartDate:    parseDate(r.StartDate),
		EndDate:      parseDate(r.EndDate),
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return repository.CampaignInput{}, "end_date must not precede start_date"
	}
	return in, ""
}

// Create inserts a campaign in pending status.
func (h *CampaignHandler) Create(c echo.Context) error {
	var req campaignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, msg := req.toInput()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Campaigns.Create(ctx, in, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	cp, err := h.Campaigns.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"campaign": campaignJSON(cp)})
}

func (h *CampaignHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req campaignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, msg := req.toInput()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Campaigns.Update(ctx, id, in); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	cp, err := h.Campaigns.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"campaign": campaignJSON(cp)})
}

type statusReq struct {
	Status string `json:"status"`
}

// SetStatus drives the campaign lifecycle: pending, active, rejected,
// completed, paused, canceled.
func (h *CampaignHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidCampaignStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Campaigns.SetStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (h *CampaignHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Campaigns.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
