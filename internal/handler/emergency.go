package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/repository"
)

// EmergencyHandler manages the singleton emergency fund.
type EmergencyHandler struct {
	Emergency *repository.EmergencyRepo
}

func NewEmergencyHandler(em *repository.EmergencyRepo) *EmergencyHandler {
	return &EmergencyHandler{Emergency: em}
}

func emergencyJSON(f model.EmergencyFund) echo.Map {
	return echo.Map{
		"title":         f.Title,
		"description":   f.Description,
		"enabled":       f.Enabled,
		"currency":      f.Currency,
		"raised_amount": f.RaisedAmount,
		"updated_at":    f.UpdatedAt,
	}
}

// Get returns the fund's public state.
func (h *EmergencyHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	fund, err := h.Emergency.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"emergency_fund": emergencyJSON(fund)})
}

type emergencyReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Enabled     *bool  `json:"enabled"`
	Currency    string `json:"currency"`
}

// Update rewrites the fund's presentation and toggle. The raised amount is
// never writable through this endpoint.
func (h *EmergencyHandler) Update(c echo.Context) error {
	var req emergencyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Emergency.Upsert(ctx, repository.EmergencyUpdate{
		Title:       strings.TrimSpace(req.Title),
		Description: optStr(req.Description),
		Enabled:     enabled,
		Currency:    currency,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	fund, err := h.Emergency.Get(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"emergency_fund": emergencyJSON(fund)})
}
