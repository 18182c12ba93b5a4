package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/repository"
)

// CaseHandler covers the beneficiary case surface, the public browse view
// and the admin lifecycle.
type CaseHandler struct {
	Cases    *repository.CaseRepo
	Partners *repository.PartnerRepo
}

func NewCaseHandler(cases *repository.CaseRepo, partners *repository.PartnerRepo) *CaseHandler {
	return &CaseHandler{Cases: cases, Partners: partners}
}

// publicCaseStatuses are the only statuses ever shown outside the owner and
// admin views.
var publicCaseStatuses = []string{"approved", "active"}

// caseJSON shapes a case for output. In public mode a masked case carries
// its alias instead of any beneficiary linkage, and image fields honour the
// hide_images choice.
func caseJSON(cs model.Case, public bool) echo.Map {
	m := echo.Map{
		"id":            cs.ID,
		"type":          cs.Type,
		"title":         cs.Title,
		"description":   cs.Description,
		"category":      cs.Category,
		"target_amount": cs.TargetAmount,
		"raised_amount": cs.RaisedAmount,
		"currency":      cs.Currency,
		"status":        cs.Status,
		"priority":      cs.Priority,
		"privacy_mode":  cs.PrivacyMode,
		"city":          cs.City,
		"start_date":    cs.StartDate,
		"end_date":      cs.EndDate,
		"created_at":    cs.CreatedAt,
		"updated_at":    cs.UpdatedAt,
	}
	if public {
		if cs.PrivacyMode == "masked" {
			m["alias_name"] = cs.AliasName
		}
		m["hide_images"] = cs.HideImages
		return m
	}
	m["beneficiary_id"] = cs.BeneficiaryID
	m["assigned_partner_id"] = cs.AssignedPartnerID
	m["rejection_reason"] = cs.RejectionReason
	m["alias_name"] = cs.AliasName
	m["hide_images"] = cs.HideImages
	return m
}

// ListPublic returns approved and active cases, masked.
func (h *CaseHandler) ListPublic(c echo.Context) error {
	limit, offset, page := pagination(c)
	f := repository.CaseFilter{
		Statuses: publicCaseStatuses,
		Type:     c.QueryParam("type"),
		Category: c.QueryParam("category"),
		City:     c.QueryParam("city"),
		Query:    c.QueryParam("q"),
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cases, total, err := h.Cases.List(ctx, f, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(cases))
	for _, cs := range cases {
		out = append(out, caseJSON(cs, true))
	}
	return c.JSON(http.StatusOK, echo.Map{"cases": out, "meta": listMeta(total, page, limit)})
}

// GetPublic returns one case when it is publicly visible.
func (h *CaseHandler) GetPublic(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cs, err := h.Cases.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	visible := false
	for _, s := range publicCaseStatuses {
		if cs.Status == s {
			visible = true
		}
	}
	if !visible {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "case not found"})
	}

	updates, err := h.Cases.ListUpdates(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"case": caseJSON(cs, true), "updates": caseUpdatesJSON(updates)})
}

func caseUpdatesJSON(updates []model.CaseUpdate) []echo.Map {
	out := make([]echo.Map, 0, len(updates))
	for _, u := range updates {
		out = append(out, echo.Map{"id": u.ID, "body": u.Body, "created_at": u.CreatedAt})
	}
	return out
}

type caseReq struct {
	Type         string  `json:"type"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	TargetAmount float64 `json:"target_amount"`
	Currency     string  `json:"currency"`
	PrivacyMode  string  `json:"privacy_mode"`
	AliasName    string  `json:"alias_name"`
	HideImages   bool    `json:"hide_images"`
	City         string  `json:"city"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
}

func (r caseReq) toInput() (repository.CaseInput, string) {
	if !model.ValidCaseType(r.Type) {
		return repository.CaseInput{}, "invalid type"
	}
	if strings.TrimSpace(r.Title) == "" || strings.TrimSpace(r.Description) == "" {
		return repository.CaseInput{}, "title and description are required"
	}
	if r.TargetAmount <= 0 {
		return repository.CaseInput{}, "target_amount must be positive"
	}
	mode := r.PrivacyMode
	if mode == "" {
		mode = "public"
	}
	if mode != "public" && mode != "masked" {
		return repository.CaseInput{}, "privacy_mode must be public or masked"
	}
	if mode == "masked" && strings.TrimSpace(r.AliasName) == "" {
		return repository.CaseInput{}, "alias_name is required for masked cases"
	}
	currency := r.Currency
	if currency == "" {
		currency = "USD"
	}
	return repository.CaseInput{
		Type:         r.Type,
		Title:        strings.TrimSpace(r.Title),
		Description:  strings.TrimSpace(r.Description),
		Category:     r.Category,
		TargetAmount: r.TargetAmount,
		Currency:     currency,
		PrivacyMode:  mode,
		AliasName:    optStr(strings.TrimSpace(r.AliasName)),
		HideImages:   r.HideImages,
		City:         optStr(r.City),
		StartDate:    parseDate(r.StartDate),
		EndDate:      parseDate(r.EndDate),
	}, ""
}

// Create opens a new case in pending status for the calling beneficiary.
func (h *CaseHandler) Create(c echo.Context) error {
	var req caseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, msg := req.toInput()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Cases.Create(ctx, in, currentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	cs, err := h.Cases.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"case": caseJSON(cs, false)})
}

// ListMine returns the calling beneficiary's own cases, unmasked.
func (h *CaseHandler) ListMine(c echo.Context) error {
	limit, offset, page := pagination(c)
	uid := currentUserID(c)
	f := repository.CaseFilter{BeneficiaryID: &uid}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cases, total, err := h.Cases.List(ctx, f, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(cases))
	for _, cs := range cases {
		out = append(out, caseJSON(cs, false))
	}
	return c.JSON(http.StatusOK, echo.Map{"cases": out, "meta": listMeta(total, page, limit)})
}

// Update lets the owning beneficiary edit a case while it is still pending
// or was rejected; edits to a rejected case return it to pending review.
func (h *CaseHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req caseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	in, msg := req.toInput()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cs, err := h.Cases.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if cs.BeneficiaryID != currentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !model.CaseEditable(cs.Status) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "case can no longer be edited"})
	}

	if err := h.Cases.Update(ctx, id, in); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if cs.Status == "rejected" {
		if err := h.Cases.SetStatus(ctx, id, "pending", nil); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}
	cs, err = h.Cases.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"case": caseJSON(cs, false)})
}

// List is the admin view over all cases.
func (h *CaseHandler) List(c echo.Context) error {
	limit, offset, page := pagination(c)
	f := repository.CaseFilter{
		Type:     c.QueryParam("type"),
		Category: c.QueryParam("category"),
		Priority: c.QueryParam("priority"),
		City:     c.QueryParam("city"),
		Query:    c.QueryParam("q"),
	}
	if s := c.QueryParam("status"); s != "" {
		if !model.ValidCaseStatus(s) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
		}
		f.Statuses = []string{s}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cases, total, err := h.Cases.List(ctx, f, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(cases))
	for _, cs := range cases {
		out = append(out, caseJSON(cs, false))
	}
	return c.JSON(http.StatusOK, echo.Map{"cases": out, "meta": listMeta(total, page, limit)})
}

func (h *CaseHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cs, err := h.Cases.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if currentRole(c) != model.RoleAdmin && cs.BeneficiaryID != currentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	updates, err := h.Cases.ListUpdates(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"case": caseJSON(cs, false), "updates": caseUpdatesJSON(updates)})
}

type caseStatusReq struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// SetStatus drives the admin lifecycle. A rejection requires a reason; the
// reason is cleared on any other transition.
func (h *CaseHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req caseStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidCaseStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	var reason *string
	if req.Status == "rejected" {
		if strings.TrimSpace(req.Reason) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "a reason is required to reject a case"})
		}
		r := strings.TrimSpace(req.Reason)
		reason = &r
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Cases.SetStatus(ctx, id, req.Status, reason); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

type casePriorityReq struct {
	Priority string `json:"priority"`
}

func (h *CaseHandler) SetPriority(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req casePriorityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !model.ValidCasePriority(req.Priority) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid priority"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Cases.SetPriority(ctx, id, req.Priority); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

type casePartnerReq struct {
	PartnerID *uint64 `json:"partner_id"` // null to unassign
}

// SetPartner assigns or clears the cooperating partner on a case.
func (h *CaseHandler) SetPartner(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req casePartnerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.PartnerID != nil {
		if _, err := h.Partners.Get(ctx, *req.PartnerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown partner"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	if err := h.Cases.SetPartner(ctx, id, req.PartnerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}

type caseUpdateReq struct {
	Body string `json:"body"`
}

// AddUpdate appends a progress note visible on the public case page.
func (h *CaseHandler) AddUpdate(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req caseUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Cases.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "case not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	updateID, err := h.Cases.AddUpdate(ctx, id, currentUserID(c), body)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": updateID})
}
