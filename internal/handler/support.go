package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/moderation"
	"github.com/sanadhub/donations-backend/internal/repository"
)

// supportPostWindow and supportPostLimit bound how often one user may post
// on the same campaign.
const (
	supportPostWindow = 24 * time.Hour
	supportPostLimit  = 3
)

// SupportHandler covers posting, browsing, reporting and moderating the
// short encouragement messages left on campaigns.
type SupportHandler struct {
	Support   *repository.SupportRepo
	Campaigns *repository.CampaignRepo
	Audit     *repository.AuditRepo
}

func NewSupportHandler(s *repository.SupportRepo, cp *repository.CampaignRepo, audit *repository.AuditRepo) *SupportHandler {
	return &SupportHandler{Support: s, Campaigns: cp, Audit: audit}
}

func supportJSON(m model.SupportMessage, admin bool) echo.Map {
	out := echo.Map{
		"id":          m.ID,
		"campaign_id": m.CampaignID,
		"type":        m.Type,
		"quick_key":   m.QuickKey,
		"message":     m.Message,
		"created_at":  m.CreatedAt,
	}
	if admin {
		out["actor_user_id"] = m.ActorUserID
		out["status"] = m.Status
		out["auto_flag"] = m.AutoFlag
		out["moderation_reason"] = m.ModerationReason
	}
	return out
}

type supportReq struct {
	Type     string `json:"type"`
	QuickKey string `json:"quick_key"`
	Message  string `json:"message"`
}

// Create posts a support message on an active campaign. Screened text that
// trips the soft keyword list is stored flagged and held from the public
// feed; hard violations are rejected outright.
func (h *SupportHandler) Create(c echo.Context) error {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req supportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	res, err := moderation.ValidateSupportMessage(req.Type, req.QuickKey, req.Message)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cp, err := h.Campaigns.Get(ctx, campaignID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if cp.Status != "active" {
		return c.JSON(http.StatusConflict, echo.Map{"error": "campaign is not active"})
	}

	actorID := currentUserID(c)
	since := time.Now().UTC().Add(-supportPostWindow)
	n, err := h.Support.CountRecentByActor(ctx, campaignID, actorID, since)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if n >= supportPostLimit {
		return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many messages on this campaign, try again later"})
	}

	msg := model.SupportMessage{
		CampaignID:  campaignID,
		ActorUserID: actorID,
		Type:        req.Type,
		Status:      "visible",
	}
	if req.Type == "quick" {
		msg.QuickKey = &req.QuickKey
	}
	msg.Message = &res.Message
	if res.AutoFlag {
		msg.Status = "flagged"
		msg.AutoFlag = true
		reason := "keyword match"
		msg.ModerationReason = &reason
	}

	id, err := h.Support.Create(ctx, msg)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	stored, err := h.Support.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	meta := requestMeta(c)
	_ = h.Audit.Append(ctx, model.AuditEntry{
		ActorID:    &actorID,
		Action:     "support_create",
		EntityType: "support_message",
		EntityID:   &id,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": supportJSON(stored, false),
		"held":    stored.Status != "visible",
	})
}

// ListPublic returns the visible messages of one campaign, newest first.
func (h *SupportHandler) ListPublic(c echo.Context) error {
	campaignID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	limit, offset, page := pagination(c)
	f := repository.SupportFilter{CampaignID: &campaignID, Status: "visible"}

	ctx, cancel := reqCtx(c)
	defer cancel()

	messages, total, err := h.Support.List(ctx, f, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(messages))
	for _, m := range messages {
		out = append(out, supportJSON(m, false))
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": out, "meta": listMeta(total, page, limit)})
}

type reportReq struct {
	Reason string `json:"reason"`
	Note   string `json:"note"`
}

// Report files one user's report against a message. Each user may report a
// message once; reaching the report threshold flags the message for review.
func (h *SupportHandler) Report(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidReportReason(req.Reason) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reason"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Support.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	reporterID := currentUserID(c)
	_, err := h.Support.CreateReport(ctx, model.SupportReport{
		SupportID:      id,
		ReporterUserID: reporterID,
		Reason:         req.Reason,
		Note:           optStr(strings.TrimSpace(req.Note)),
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already reported"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	count, err := h.Support.CountReports(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if count >= model.ReportFlagThreshold {
		if err := h.Support.Flag(ctx, id, "report threshold reached"); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true})
}

// List is the moderation queue: any status, optional campaign and text
// filters.
func (h *SupportHandler) List(c echo.Context) error {
	limit, offset, page := pagination(c)
	f := repository.SupportFilter{
		Status: c.QueryParam("status"),
		Query:  c.QueryParam("q"),
	}
	if f.Status != "" && !model.ValidSupportStatus(f.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	if v := c.QueryParam("campaign_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid campaign_id"})
		}
		f.CampaignID = &id
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	messages, total, err := h.Support.List(ctx, f, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(messages))
	for _, m := range messages {
		out = append(out, supportJSON(m, true))
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": out, "meta": listMeta(total, page, limit)})
}

type moderateReq struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Moderate sets a message's visibility after review.
func (h *SupportHandler) Moderate(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req moderateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidSupportStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Support.Moderate(ctx, id, req.Status, optStr(strings.TrimSpace(req.Reason))); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "message not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	actorID := currentUserID(c)
	meta := requestMeta(c)
	_ = h.Audit.Append(ctx, model.AuditEntry{
		ActorID:    &actorID,
		Action:     "support_moderate",
		EntityType: "support_message",
		EntityID:   &id,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	})
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
