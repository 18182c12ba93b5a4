package model

import "time"

// Setting is a key/value pair controlling site-wide behavior. Defaults are
// seeded at bootstrap and edited by administrators.
type Setting struct {
	ID        uint64    // settings.id
	Key       string    // settings.setting_key (unique)
	Value     string    // settings.setting_value
	UpdatedBy *uint64   // settings.updated_by (nullable)
	CreatedAt time.Time // settings.created_at
	UpdatedAt time.Time // settings.updated_at
}
