package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/queue"
	"github.com/sanadhub/donations-backend/internal/repository"
	queue_publisher "github.com/sanadhub/donations-backend/internal/service"
)

// DonationHandler records donations against exactly one target and keeps
// the target's raised amount in sync.
type DonationHandler struct {
	Donations *repository.DonationRepo
	Campaigns *repository.CampaignRepo
	Cases     *repository.CaseRepo
	Emergency *repository.EmergencyRepo
	Audit     *repository.AuditRepo
}

func NewDonationHandler(d *repository.DonationRepo, cp *repository.CampaignRepo, cs *repository.CaseRepo, em *repository.EmergencyRepo, audit *repository.AuditRepo) *DonationHandler {
	return &DonationHandler{Donations: d, Campaigns: cp, Cases: cs, Emergency: em, Audit: audit}
}

func donationJSON(d model.Donation) echo.Map {
	return echo.Map{
		"id":             d.ID,
		"donor_id":       d.DonorID,
		"donor_name":     d.DonorName,
		"campaign_id":    d.CampaignID,
		"campaign_title": d.CampaignTitle,
		"case_id":        d.CaseID,
		"case_title":     d.CaseTitle,
		"emergency_id":   d.EmergencyID,
		"amount":         d.Amount,
		"payment_method": d.PaymentMethod,
		"payment_status": d.PaymentStatus,
		"created_at":     d.CreatedAt,
	}
}

type donationReq struct {
	CampaignID    *uint64 `json:"campaign_id"`
	CaseID        *uint64 `json:"case_id"`
	EmergencyFund bool    `json:"emergency_fund"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	PaymentStatus string  `json:"payment_status"`
}

// Create records a donation. Exactly one target must be named; the target
// must currently accept donations. A paid donation immediately bumps the
// target's raised amount and a donation.received event is published on a
// best-effort basis.
func (h *DonationHandler) Create(c echo.Context) error {
	var req donationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	targets := 0
	if req.CampaignID != nil {
		targets++
	}
	if req.CaseID != nil {
		targets++
	}
	if req.EmergencyFund {
		targets++
	}
	if targets != 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exactly one of campaign_id, case_id or emergency_fund is required"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment_method"})
	}
	status := req.PaymentStatus
	if status == "" {
		status = "paid"
	}
	if !model.ValidPaymentStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment_status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d := model.Donation{
		DonorID:       currentUserID(c),
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: status,
	}
	currency := "USD"

	switch {
	case req.CampaignID != nil:
		cp, err := h.Campaigns.Get(ctx, *req.CampaignID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if cp.Status != "active" {
			return c.JSON(http.StatusConflict, echo.Map{"error": "campaign is not accepting donations"})
		}
		d.CampaignID = req.CampaignID
	case req.CaseID != nil:
		cs, err := h.Cases.Get(ctx, *req.CaseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "case not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if cs.Status != "approved" && cs.Status != "active" {
			return c.JSON(http.StatusConflict, echo.Map{"error": "case is not accepting donations"})
		}
		d.CaseID = req.CaseID
		currency = cs.Currency
	default:
		fund, err := h.Emergency.Get(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
		if !fund.Enabled {
			return c.JSON(http.StatusConflict, echo.Map{"error": "emergency fund is not accepting donations"})
		}
		id := model.EmergencyFundID
		d.EmergencyID = &id
		currency = fund.Currency
	}

	id, err := h.Donations.Create(ctx, d)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	if status == "paid" {
		if err := h.addRaised(ctx, d); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	out, err := h.Donations.Get(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	meta := requestMeta(c)
	h.auditDonation(ctx, out, meta.IP, meta.UserAgent)
	go publishDonation(out, currency)

	return c.JSON(http.StatusCreated, echo.Map{"donation": donationJSON(out)})
}

func (h *DonationHandler) addRaised(ctx context.Context, d model.Donation) error {
	switch {
	case d.CampaignID != nil:
		return h.Campaigns.AddRaised(ctx, *d.CampaignID, d.Amount)
	case d.CaseID != nil:
		return h.Cases.AddRaised(ctx, *d.CaseID, d.Amount)
	default:
		return h.Emergency.AddRaised(ctx, d.Amount)
	}
}

func (h *DonationHandler) auditDonation(ctx context.Context, d model.Donation, ip, ua string) {
	_ = h.Audit.Append(ctx, model.AuditEntry{
		ActorID:    &d.DonorID,
		Action:     "donation_create",
		EntityType: "donation",
		EntityID:   &d.ID,
		IP:         ip,
		UserAgent:  ua,
	})
}

// publishDonation emits the broker event off the request path. Publish
// failures are logged inside the publisher and ignored here.
func publishDonation(d model.Donation, currency string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.DonationReceivedEvent{
		DonationID:    d.ID,
		DonorID:       d.DonorID,
		CampaignID:    d.CampaignID,
		CaseID:        d.CaseID,
		EmergencyID:   d.EmergencyID,
		Amount:        d.Amount,
		Currency:      currency,
		PaymentMethod: d.PaymentMethod,
		Status:        d.PaymentStatus,
		ReceivedAt:    d.CreatedAt.UTC().Format(time.RFC3339),
	}
	if d.DonorName != nil {
		ev.DonorName = *d.DonorName
	}
	if d.CampaignTitle != nil {
		ev.CampaignTitle = *d.CampaignTitle
	}
	if d.CaseTitle != nil {
		ev.CaseTitle = *d.CaseTitle
	}
	_ = queue_publisher.PublishDonationReceived(ctx, ev)
}

// ListMine returns the caller's donation history.
func (h *DonationHandler) ListMine(c echo.Context) error {
	limit, offset, page := pagination(c)
	uid := currentUserID(c)
	f := repository.DonationFilter{DonorID: &uid}

	ctx, cancel := reqCtx(c)
	defer cancel()

	donations, total, err := h.Donations.List(ctx, f, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(donations))
	for _, d := range donations {
		out = append(out, donationJSON(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"donations": out, "meta": listMeta(total, page, limit)})
}

// List is the admin view with target, status and date filters.
func (h *DonationHandler) List(c echo.Context) error {
	limit, offset, page := pagination(c)
	f := repository.DonationFilter{
		PaymentState: c.QueryParam("status"),
		From:         queryDate(c, "from"),
		To:           queryDate(c, "to"),
	}
	if f.PaymentState != "" && !model.ValidPaymentStatus(f.PaymentState) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	for name, dst := range map[string]**uint64{
		"donor_id":    &f.DonorID,
		"campaign_id": &f.CampaignID,
		"case_id":     &f.CaseID,
	} {
		if v := c.QueryParam(name); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + name})
			}
			*dst = &id
		}
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	donations, total, err := h.Donations.List(ctx, f, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	out := make([]echo.Map, 0, len(donations))
	for _, d := range donations {
		out = append(out, donationJSON(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"donations": out, "meta": listMeta(total, page, limit)})
}

// Get returns one donation; donors may only read their own.
func (h *DonationHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Donations.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "donation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if currentRole(c) != model.RoleAdmin && d.DonorID != currentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, echo.Map{"donation": donationJSON(d)})
}
