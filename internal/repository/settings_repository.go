package repository

import (
	"context"
	"database/sql"

	"github.com/sanadhub/donations-backend/internal/model"
)

// SettingsRepo persists site-wide key/value settings.
type SettingsRepo struct{ DB *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{DB: db} }

func scanSetting(scan func(dest ...any) error) (model.Setting, error) {
	var (
		s         model.Setting
		updatedBy sql.NullInt64
	)
	err := scan(&s.ID, &s.Key, &s.Value, &updatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.Setting{}, err
	}
	if updatedBy.Valid {
		v := uint64(updatedBy.Int64)
		s.UpdatedBy = &v
	}
	return s, nil
}

// List returns all settings ordered by key.
func (r *SettingsRepo) List(ctx context.Context) ([]model.Setting, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,setting_key,setting_value,updated_by,created_at,updated_at FROM settings ORDER BY setting_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Setting
	for rows.Next() {
		s, err := scanSetting(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get fetches one setting by key.
func (r *SettingsRepo) Get(ctx context.Context, key string) (model.Setting, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT id,setting_key,setting_value,updated_by,created_at,updated_at FROM settings WHERE setting_key=? LIMIT 1",
		key)
	s, err := scanSetting(row.Scan)
	if err == sql.ErrNoRows {
		return model.Setting{}, ErrNotFound
	}
	return s, err
}

// Upsert writes a setting value, recording who changed it.
func (r *SettingsRepo) Upsert(ctx context.Context, key, value string, updatedBy uint64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO settings (setting_key, setting_value, updated_by) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE setting_value=VALUES(setting_value), updated_by=VALUES(updated_by)`,
		key, value, updatedBy)
	return err
}
