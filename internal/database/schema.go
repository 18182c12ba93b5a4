package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the DDL executed at startup. Statements are idempotent so the
// bootstrap can run on every boot, mirroring the index/seed bootstrap of the
// deployment scripts.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(190) NOT NULL,
		email VARCHAR(190) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'donor',
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		preferred_language VARCHAR(2) NOT NULL DEFAULT 'ar',
		failed_login_attempts INT UNSIGNED NOT NULL DEFAULT 0,
		locked_until DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY users_email_unique (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		token_hash CHAR(64) NOT NULL,
		revoked TINYINT(1) NOT NULL DEFAULT 0,
		user_agent VARCHAR(255) NULL,
		ip VARCHAR(45) NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY refresh_tokens_hash (token_hash),
		KEY refresh_tokens_user (user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS campaigns (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(190) NOT NULL,
		description TEXT NOT NULL,
		target_amount DECIMAL(14,2) NOT NULL,
		raised_amount DECIMAL(14,2) NOT NULL DEFAULT 0,
		category VARCHAR(30) NOT NULL DEFAULT 'general',
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		image_url VARCHAR(500) NULL,
		start_date DATETIME NULL,
		end_date DATETIME NULL,
		created_by BIGINT UNSIGNED NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY campaigns_status_category (status, category)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS cases (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		type VARCHAR(30) NOT NULL,
		title VARCHAR(190) NOT NULL,
		description TEXT NOT NULL,
		category VARCHAR(30) NOT NULL DEFAULT 'general',
		target_amount DECIMAL(14,2) NOT NULL,
		raised_amount DECIMAL(14,2) NOT NULL DEFAULT 0,
		currency VARCHAR(3) NOT NULL DEFAULT 'USD',
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		priority VARCHAR(10) NOT NULL DEFAULT 'normal',
		beneficiary_id BIGINT UNSIGNED NOT NULL,
		assigned_partner_id BIGINT UNSIGNED NULL,
		rejection_reason VARCHAR(500) NULL,
		privacy_mode VARCHAR(20) NOT NULL DEFAULT 'public',
		alias_name VARCHAR(190) NULL,
		hide_images TINYINT(1) NOT NULL DEFAULT 0,
		city VARCHAR(100) NULL,
		start_date DATETIME NULL,
		end_date DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY cases_status_type (status, type),
		KEY cases_beneficiary (beneficiary_id, created_at),
		KEY cases_priority_status (priority, status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS case_updates (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		case_id BIGINT UNSIGNED NOT NULL,
		author_id BIGINT UNSIGNED NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY case_updates_case (case_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS donations (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		donor_id BIGINT UNSIGNED NOT NULL,
		campaign_id BIGINT UNSIGNED NULL,
		case_id BIGINT UNSIGNED NULL,
		emergency_id BIGINT UNSIGNED NULL,
		amount DECIMAL(14,2) NOT NULL,
		payment_method VARCHAR(20) NOT NULL,
		payment_status VARCHAR(20) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY donations_campaign (campaign_id, created_at),
		KEY donations_case (case_id, created_at),
		KEY donations_donor (donor_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS emergency_fund (
		id BIGINT UNSIGNED PRIMARY KEY,
		title VARCHAR(190) NOT NULL,
		description TEXT NULL,
		enabled TINYINT(1) NOT NULL DEFAULT 1,
		currency VARCHAR(3) NOT NULL DEFAULT 'USD',
		raised_amount DECIMAL(14,2) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS advertisements (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(190) NOT NULL,
		description TEXT NULL,
		image_url VARCHAR(500) NULL,
		link_url VARCHAR(500) NULL,
		category VARCHAR(30) NOT NULL DEFAULT 'general',
		status VARCHAR(20) NOT NULL DEFAULT 'inactive',
		start_date DATETIME NULL,
		end_date DATETIME NULL,
		created_by BIGINT UNSIGNED NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY advertisements_status_window (status, start_date, end_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS partners (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(190) NOT NULL,
		description TEXT NULL,
		logo_url VARCHAR(500) NULL,
		website_url VARCHAR(500) NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS campaign_support_messages (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		campaign_id BIGINT UNSIGNED NOT NULL,
		actor_user_id BIGINT UNSIGNED NOT NULL,
		type VARCHAR(10) NOT NULL,
		quick_key VARCHAR(50) NULL,
		message VARCHAR(200) NULL,
		status VARCHAR(10) NOT NULL DEFAULT 'visible',
		auto_flag TINYINT(1) NOT NULL DEFAULT 0,
		moderation_reason VARCHAR(100) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY support_campaign (campaign_id, status, created_at),
		KEY support_actor_window (campaign_id, actor_user_id, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS support_reports (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		support_id BIGINT UNSIGNED NOT NULL,
		reporter_user_id BIGINT UNSIGNED NOT NULL,
		reason VARCHAR(20) NOT NULL,
		note VARCHAR(300) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY support_reports_unique (support_id, reporter_user_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS settings (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		setting_key VARCHAR(100) NOT NULL,
		setting_value VARCHAR(500) NOT NULL,
		updated_by BIGINT UNSIGNED NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY settings_key_unique (setting_key)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		actor_id BIGINT UNSIGNED NULL,
		action VARCHAR(50) NOT NULL,
		entity_type VARCHAR(50) NOT NULL,
		entity_id BIGINT UNSIGNED NULL,
		meta JSON NULL,
		ip VARCHAR(45) NULL,
		user_agent VARCHAR(255) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY audit_logs_actor (actor_id, created_at),
		KEY audit_logs_action (action, created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// defaultSettings are inserted once; later boots leave operator edits alone.
var defaultSettings = map[string]string{
	"site_name":         "Donations Platform",
	"currency":          "USD",
	"default_language":  "ar",
	"maintenance_mode":  "false",
	"donations_enabled": "true",
	"contact_email":     "admin@example.com",
}

// EnsureSchema creates missing tables and seeds default settings and the
// emergency fund singleton row.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	for k, v := range defaultSettings {
		if _, err := db.ExecContext(ctx,
			"INSERT IGNORE INTO settings (setting_key, setting_value) VALUES (?,?)", k, v); err != nil {
			return fmt.Errorf("seed settings: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx,
		"INSERT IGNORE INTO emergency_fund (id, title, enabled) VALUES (1, 'Emergency Fund', 1)"); err != nil {
		return fmt.Errorf("seed emergency fund: %w", err)
	}
	return nil
}
