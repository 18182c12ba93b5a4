package model

import "time"

var (
	PaymentMethods  = []string{"card", "bank", "cash", "paypal"}
	PaymentStatuses = []string{"paid", "pending", "failed", "refunded"}
)

// Donation targets exactly one of campaign, case or emergency fund; the
// other two foreign keys stay NULL.
type Donation struct {
	ID            uint64    // donations.id
	DonorID       uint64    // donations.donor_id
	CampaignID    *uint64   // donations.campaign_id (nullable)
	CaseID        *uint64   // donations.case_id (nullable)
	EmergencyID   *uint64   // donations.emergency_id (nullable)
	Amount        float64   // donations.amount
	PaymentMethod string    // donations.payment_method
	PaymentStatus string    // donations.payment_status
	CreatedAt     time.Time // donations.created_at

	// Decoration joined from related tables.
	CampaignTitle *string
	CaseTitle     *string
	DonorName     *string
	DonorEmail    *string
}

func ValidPaymentMethod(v string) bool { return contains(PaymentMethods, v) }
func ValidPaymentStatus(v string) bool { return contains(PaymentStatuses, v) }
