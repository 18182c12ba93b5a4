package model

import "time"

// Roles and statuses accepted on user records.
const (
	RoleAdmin       = "admin"
	RoleDonor       = "donor"
	RoleBeneficiary = "beneficiary"

	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Lockout policy: after LockoutThreshold consecutive failed logins the
// account is locked for LockoutDuration and the counter resets to zero.
const (
	LockoutThreshold = 5
	LockoutDuration  = 15 * time.Minute
)

// User represents a row in the `users` table. The failed-login counter and
// locked_until column implement brute-force lockout: the counter resets to
// zero when the lock engages, so the lock itself (not the count) persists
// across the lockout window.
type User struct {
	ID                  uint64     // users.id
	Name                string     // users.name
	Email               string     // users.email (unique, lower-cased)
	PasswordHash        string     // users.password_hash (bcrypt)
	Role                string     // users.role
	Status              string     // users.status
	PreferredLanguage   string     // users.preferred_language ("ar" | "en")
	FailedLoginAttempts uint       // users.failed_login_attempts
	LockedUntil         *time.Time // users.locked_until (nullable)
	CreatedAt           time.Time  // users.created_at
	UpdatedAt           time.Time  // users.updated_at
}

// RefreshSession models an entry in the `refresh_tokens` table. The plain
// token is never stored; only its SHA-256 hash, so a database read cannot be
// used to forge a session.
type RefreshSession struct {
	ID        uint64    // refresh_tokens.id
	UserID    uint64    // refresh_tokens.user_id
	TokenHash string    // refresh_tokens.token_hash
	Revoked   bool      // refresh_tokens.revoked
	UserAgent string    // refresh_tokens.user_agent (may be empty)
	IP        string    // refresh_tokens.ip (may be empty)
	ExpiresAt time.Time // refresh_tokens.expires_at
	CreatedAt time.Time // refresh_tokens.created_at
}

// ValidRole reports whether role is one of the accepted role names.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleDonor || role == RoleBeneficiary
}

// ValidUserStatus reports whether status is an accepted account status.
func ValidUserStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// ValidLanguage reports whether lang is a supported interface language.
func ValidLanguage(lang string) bool { return lang == "ar" || lang == "en" }
