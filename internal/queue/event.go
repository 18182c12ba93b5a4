// Package queue defines message payloads exchanged over the message broker.
package queue

// DonationReceivedName is the queue the platform publishes donations to.
const DonationReceivedName = "donation.received"

// DonationReceivedEvent is published when a donation is recorded. It carries
// enough detail for downstream consumers to log, notify, or feed analytics
// without reading the primary database. Exactly one of CampaignID, CaseID or
// EmergencyID is set, matching the donation's target.
type DonationReceivedEvent struct {
	DonationID    uint64  `json:"donation_id"`
	DonorID       uint64  `json:"donor_id"`
	DonorName     string  `json:"donor_name"`
	CampaignID    *uint64 `json:"campaign_id,omitempty"`
	CampaignTitle string  `json:"campaign_title,omitempty"`
	CaseID        *uint64 `json:"case_id,omitempty"`
	CaseTitle     string  `json:"case_title,omitempty"`
	EmergencyID   *uint64 `json:"emergency_id,omitempty"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	PaymentMethod string  `json:"payment_method"`
	Status        string  `json:"status"`
	ReceivedAt    string  `json:"received_at"`
}
