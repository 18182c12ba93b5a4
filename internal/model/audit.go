package model

import "time"

// AuditEntry is an append-only record of who did what. Writes are
// best-effort; a failed audit insert never fails the originating request.
type AuditEntry struct {
	ID         uint64    // audit_logs.id
	ActorID    *uint64   // audit_logs.actor_id (nullable; nil for anonymous)
	Action     string    // audit_logs.action (e.g. "auth_login")
	EntityType string    // audit_logs.entity_type (e.g. "user")
	EntityID   *uint64   // audit_logs.entity_id (nullable)
	Meta       []byte    // audit_logs.meta (JSON, nullable)
	IP         string    // audit_logs.ip
	UserAgent  string    // audit_logs.user_agent
	CreatedAt  time.Time // audit_logs.created_at

	// Decoration joined from users.
	ActorName  *string
	ActorEmail *string
}
