package model

import "time"

var AdStatuses = []string{"active", "inactive"}

// Advertisement is a banner shown on the public site, visible only while
// active and inside its optional date window.
type Advertisement struct {
	ID          uint64     // advertisements.id
	Title       string     // advertisements.title
	Description *string    // advertisements.description (nullable)
	ImageURL    *string    // advertisements.image_url (nullable)
	LinkURL     *string    // advertisements.link_url (nullable)
	Category    string     // advertisements.category
	Status      string     // advertisements.status
	StartDate   *time.Time // advertisements.start_date (nullable)
	EndDate     *time.Time // advertisements.end_date (nullable)
	CreatedBy   *uint64    // advertisements.created_by (nullable)
	CreatedAt   time.Time  // advertisements.created_at
	UpdatedAt   time.Time  // advertisements.updated_at
}

func ValidAdStatus(v string) bool { return contains(AdStatuses, v) }
