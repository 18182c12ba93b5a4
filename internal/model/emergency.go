package model

import "time"

// EmergencyFundID is the fixed id of the singleton emergency_fund row.
const EmergencyFundID uint64 = 1

// EmergencyFund is a single pooled fund that accepts donations directly,
// outside any campaign or case.
type EmergencyFund struct {
	ID           uint64    // emergency_fund.id (always 1)
	Title        string    // emergency_fund.title
	Description  *string   // emergency_fund.description (nullable)
	Enabled      bool      // emergency_fund.enabled
	Currency     string    // emergency_fund.currency
	RaisedAmount float64   // emergency_fund.raised_amount
	CreatedAt    time.Time // emergency_fund.created_at
	UpdatedAt    time.Time // emergency_fund.updated_at
}
