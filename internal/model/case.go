package model

import "time"

// Case vocabulary. A case may only be edited by its beneficiary while in an
// editable status; admins drive the rest of the lifecycle.
var (
	CaseTypes            = []string{"sponsorship", "zakat", "sadaqah", "general"}
	CaseStatuses         = []string{"pending", "approved", "active", "rejected", "completed", "canceled"}
	CasePriorities       = []string{"low", "normal", "high", "urgent"}
	CaseEditableStatuses = []string{"pending", "rejected"}
)

// Case is an individual aid request submitted by a beneficiary.
type Case struct {
	ID                uint64     // cases.id
	Type              string     // cases.type
	Title             string     // cases.title
	Description       string     // cases.description
	Category          string     // cases.category
	TargetAmount      float64    // cases.target_amount
	RaisedAmount      float64    // cases.raised_amount
	Currency          string     // cases.currency
	Status            string     // cases.status
	Priority          string     // cases.priority
	BeneficiaryID     uint64     // cases.beneficiary_id
	AssignedPartnerID *uint64    // cases.assigned_partner_id (nullable)
	RejectionReason   *string    // cases.rejection_reason (nullable)
	PrivacyMode       string     // cases.privacy_mode ("public" | "masked")
	AliasName         *string    // cases.alias_name (shown instead of the real name when masked)
	HideImages        bool       // cases.hide_images
	City              *string    // cases.city (nullable)
	StartDate         *time.Time // cases.start_date (nullable)
	EndDate           *time.Time // cases.end_date (nullable)
	CreatedAt         time.Time  // cases.created_at
	UpdatedAt         time.Time  // cases.updated_at
}

// CaseUpdate is a progress note appended to a case by an administrator.
type CaseUpdate struct {
	ID        uint64    // case_updates.id
	CaseID    uint64    // case_updates.case_id
	AuthorID  uint64    // case_updates.author_id
	Body      string    // case_updates.body
	CreatedAt time.Time // case_updates.created_at
}

func ValidCaseType(v string) bool     { return contains(CaseTypes, v) }
func ValidCaseStatus(v string) bool   { return contains(CaseStatuses, v) }
func ValidCasePriority(v string) bool { return contains(CasePriorities, v) }
func CaseEditable(status string) bool { return contains(CaseEditableStatuses, status) }
