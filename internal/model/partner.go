package model

import "time"

// Partner is an organization cooperating with the platform; partners can be
// assigned to cases by administrators.
type Partner struct {
	ID          uint64    // partners.id
	Name        string    // partners.name
	Description *string   // partners.description (nullable)
	LogoURL     *string   // partners.logo_url (nullable)
	WebsiteURL  *string   // partners.website_url (nullable)
	Status      string    // partners.status ("active" | "inactive")
	CreatedAt   time.Time // partners.created_at
	UpdatedAt   time.Time // partners.updated_at
}
