package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/repository"
)

// AuditHandler exposes the read side of the audit trail to administrators.
type AuditHandler struct {
	Audit *repository.AuditRepo
}

func NewAuditHandler(a *repository.AuditRepo) *AuditHandler { return &AuditHandler{Audit: a} }

func auditJSON(e model.AuditEntry) echo.Map {
	var meta any
	if len(e.Meta) > 0 {
		_ = json.Unmarshal(e.Meta, &meta)
	}
	return echo.Map{
		"id":          e.ID,
		"actor_id":    e.ActorID,
		"actor_name":  e.ActorName,
		"actor_email": e.ActorEmail,
		"action":      e.Action,
		"entity_type": e.EntityType,
		"entity_id":   e.EntityID,
		"meta":        meta,
		"ip":          e.IP,
		"user_agent":  e.UserAgent,
		"created_at":  e.CreatedAt,
	}
}

// List pages through the audit trail, newest first, with actor, action,
// entity and date filters.
func (h *AuditHandler) List(c echo.Context) error {
	limit, offset, page := pagination(c)
	f := repository.AuditFilter{
		Action:     c.QueryParam("action"),
		EntityType: c.QueryParam("entity_type"),
		From:       queryDate(c, "from"),
		To:         queryDate(c, "to"),
	}
	if v := c.QueryParam("actor_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid actor_id"})
		}
		f.ActorID = &id
	}
	if v := c.QueryParam("entity_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid entity_id"})
		}
		f.EntityID = &id
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	entries, total, err := h.Audit.List(ctx, f, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(entries))
	for _, e := range entries {
		out = append(out, auditJSON(e))
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": out, "meta": listMeta(total, page, limit)})
}
