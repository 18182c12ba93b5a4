package model

import "time"

// Campaign categories and statuses accepted by the API.
var (
	CampaignCategories = []string{"education", "health", "relief", "construction", "general"}
	CampaignStatuses   = []string{"pending", "active", "rejected", "completed", "paused", "canceled"}
)

// Campaign represents a fundraising campaign created by an administrator.
type Campaign struct {
	ID           uint64     // campaigns.id
	Title        string     // campaigns.title
	Description  string     // campaigns.description
	TargetAmount float64    // campaigns.target_amount
	RaisedAmount float64    // campaigns.raised_amount
	Category     string     // campaigns.category
	Status       string     // campaigns.status
	ImageURL     *string    // campaigns.image_url (nullable)
	StartDate    *time.Time // campaigns.start_date (nullable)
	EndDate      *time.Time // campaigns.end_date (nullable)
	CreatedBy    *uint64    // campaigns.created_by (nullable)
	CreatedAt    time.Time  // campaigns.created_at
	UpdatedAt    time.Time  // campaigns.updated_at

	// Decoration joined from users; not columns of the campaigns table.
	CreatorName  *string
	CreatorEmail *string
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func ValidCampaignCategory(v string) bool { return contains(CampaignCategories, v) }
func ValidCampaignStatus(v string) bool   { return contains(CampaignStatuses, v) }
