package repository

import (
	"context"
	"database/sql"

	"github.com/sanadhub/donations-backend/internal/model"
)

// EmergencyRepo persists the singleton emergency fund row.
type EmergencyRepo struct{ DB *sql.DB }

func NewEmergencyRepo(db *sql.DB) *EmergencyRepo { return &EmergencyRepo{DB: db} }

// Get loads the fund.
func (r *EmergencyRepo) Get(ctx context.Context) (model.EmergencyFund, error) {
	var (
		f    model.EmergencyFund
		desc sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,title,description,enabled,currency,raised_amount,created_at,updated_at
		 FROM emergency_fund WHERE id=? LIMIT 1`, model.EmergencyFundID).
		Scan(&f.ID, &f.Title, &desc, &f.Enabled, &f.Currency, &f.RaisedAmount, &f.CreatedAt, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.EmergencyFund{}, ErrNotFound
	}
	if err != nil {
		return model.EmergencyFund{}, err
	}
	if desc.Valid {
		f.Description = &desc.String
	}
	return f, nil
}

// EmergencyUpdate carries the admin-editable fund fields.
type EmergencyUpdate struct {
	Title       string
	Description *string
	Enabled     bool
	Currency    string
}

// Upsert writes the fund settings, creating the singleton row when the
// bootstrap seed is missing. raised_amount is preserved.
func (r *EmergencyRepo) Upsert(ctx context.Context, u EmergencyUpdate) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO emergency_fund (id, title, description, enabled, currency)
		 VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE title=VALUES(title), description=VALUES(description),
			enabled=VALUES(enabled), currency=VALUES(currency)`,
		model.EmergencyFundID, u.Title, u.Description, u.Enabled, u.Currency)
	return err
}

// AddRaised increments the fund's raised amount by a paid donation.
func (r *EmergencyRepo) AddRaised(ctx context.Context, amount float64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE emergency_fund SET raised_amount = raised_amount + ? WHERE id=?",
		amount, model.EmergencyFundID)
	return err
}
