package repository

import (
	"context"
	"database/sql"

	"github.com/sanadhub/donations-backend/internal/model"
)

// PartnerRepo persists partner organizations.
type PartnerRepo struct{ DB *sql.DB }

func NewPartnerRepo(db *sql.DB) *PartnerRepo { return &PartnerRepo{DB: db} }

const partnerColumns = "id,name,description,logo_url,website_url,status,created_at,updated_at"

func scanPartner(scan func(dest ...any) error) (model.Partner, error) {
	var (
		p                model.Partner
		desc, logo, site sql.NullString
	)
	err := scan(&p.ID, &p.Name, &desc, &logo, &site, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Partner{}, err
	}
	if desc.Valid {
		p.Description = &desc.String
	}
	if logo.Valid {
		p.LogoURL = &logo.String
	}
	if site.Valid {
		p.WebsiteURL = &site.String
	}
	return p, nil
}

// List returns partners newest first; activeOnly restricts to status active.
func (r *PartnerRepo) List(ctx context.Context, activeOnly bool) ([]model.Partner, error) {
	query := "SELECT " + partnerColumns + " FROM partners"
	if activeOnly {
		query += " WHERE status='active'"
	}
	query += " ORDER BY id DESC"
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Partner
	for rows.Next() {
		p, err := scanPartner(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get fetches one partner by id.
func (r *PartnerRepo) Get(ctx context.Context, id uint64) (model.Partner, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+partnerColumns+" FROM partners WHERE id=? LIMIT 1", id)
	p, err := scanPartner(row.Scan)
	if err == sql.ErrNoRows {
		return model.Partner{}, ErrNotFound
	}
	return p, err
}

// PartnerInput carries the writable partner fields.
type PartnerInput struct {
	Name        string
	Description *string
	LogoURL     *string
	WebsiteURL  *string
}

// Create inserts an active partner and returns its id.
func (r *PartnerRepo) Create(ctx context.Context, in PartnerInput) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO partners (name, description, logo_url, website_url) VALUES (?,?,?,?)",
		in.Name, in.Description, in.LogoURL, in.WebsiteURL)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update overwrites the writable fields of a partner.
func (r *PartnerRepo) Update(ctx context.Context, id uint64, in PartnerInput) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE partners SET name=?, description=?, logo_url=?, website_url=? WHERE id=?",
		in.Name, in.Description, in.LogoURL, in.WebsiteURL, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, ferr := r.Get(ctx, id); ferr != nil {
			return ferr
		}
	}
	return nil
}

// SetStatus toggles a partner between active and inactive.
func (r *PartnerRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE partners SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, ferr := r.Get(ctx, id); ferr != nil {
			return ferr
		}
	}
	return nil
}

// Delete removes a partner.
func (r *PartnerRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM partners WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
