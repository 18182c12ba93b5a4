package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/repository"
)

// ReportHandler serves the admin analytics endpoints. Every endpoint takes
// optional ?from and ?to date bounds (YYYY-MM-DD).
type ReportHandler struct {
	Reports *repository.ReportRepo
}

func NewReportHandler(r *repository.ReportRepo) *ReportHandler { return &ReportHandler{Reports: r} }

func (h *ReportHandler) Summary(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Reports.Summary(ctx, queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"summary": s})
}

func (h *ReportHandler) DonationsByMonth(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Reports.DonationsByMonth(ctx, queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"months": rows})
}

func (h *ReportHandler) DonationsByCategory(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Reports.DonationsByCategory(ctx, queryDate(c, "from"), queryDate(c, "to"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": rows})
}

func (h *ReportHandler) TopCampaigns(c echo.Context) error {
	limit := 5
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 50 {
		limit = v
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Reports.TopCampaigns(ctx, queryDate(c, "from"), queryDate(c, "to"), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"campaigns": rows})
}
