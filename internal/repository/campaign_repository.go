package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sanadhub/donations-backend/internal/model"
)

// CampaignRepo persists fundraising campaigns.
type CampaignRepo struct{ DB *sql.DB }

func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{DB: db} }

const campaignSelect = `SELECT c.id,c.title,c.description,c.target_amount,c.raised_amount,c.category,c.status,
	c.image_url,c.start_date,c.end_date,c.created_by,c.created_at,c.updated_at,u.name,u.email
	FROM campaigns c LEFT JOIN users u ON u.id=c.created_by`

func scanCampaign(scan func(dest ...any) error) (model.Campaign, error) {
	var (
		c                  model.Campaign
		imageURL           sql.NullString
		startDate, endDate sql.NullTime
		createdBy          sql.NullInt64
		creatorName        sql.NullString
		creatorEmail       sql.NullString
	)
	err := scan(&c.ID, &c.Title, &c.Description, &c.TargetAmount, &c.RaisedAmount, &c.Category, &c.Status,
		&imageURL, &startDate, &endDate, &createdBy, &c.CreatedAt, &c.UpdatedAt, &creatorName, &creatorEmail)
	if err != nil {
		return model.Campaign{}, err
	}
	if imageURL.Valid {
		c.ImageURL = &imageURL.String
	}
	if startDate.Valid {
		c.StartDate = &startDate.Time
	}
	if endDate.Valid {
		c.EndDate = &endDate.Time
	}
	if createdBy.Valid {
		v := uint64(createdBy.Int64)
		c.CreatedBy = &v
	}
	if creatorName.Valid {
		c.CreatorName = &creatorName.String
	}
	if creatorEmail.Valid {
		c.CreatorEmail = &creatorEmail.String
	}
	return c, nil
}

// CampaignFilter narrows List; empty strings mean "any".
type CampaignFilter struct {
	Status   string
	Category string
	Query    string // case-insensitive title substring
}

// List returns campaigns newest first with creator decoration.
func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]model.Campaign, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if f.Status != "" {
		where = append(where, "c.status=?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where = append(where, "c.category=?")
		args = append(args, f.Category)
	}
	if f.Query != "" {
		where = append(where, "c.title LIKE ?")
		args = append(args, "%"+f.Query+"%")
	}
	query := campaignSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.id DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Get fetches one campaign by id.
func (r *CampaignRepo) Get(ctx context.Context, id uint64) (model.Campaign, error) {
	row := r.DB.QueryRowContext(ctx, campaignSelect+" WHERE c.id=? LIMIT 1", id)
	c, err := scanCampaign(row.Scan)
	if err == sql.ErrNoRows {
		return model.Campaign{}, ErrNotFound
	}
	return c, err
}

// CampaignInput carries the writable campaign fields.
type CampaignInput struct {
	Title        string
	Description  string
	TargetAmount float64
	Category     string
	ImageURL     *string
	StartDate    *time.Time
	EndDate      *time.Time
}

// Create inserts a pending campaign owned by createdBy and returns its id.
func (r *CampaignRepo) Create(ctx context.Context, in CampaignInput, createdBy uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO campaigns (title, description, target_amount, category, image_url, start_date, end_date, created_by)
		 VALUES (?,?,?,?,?,?,?,?)`,
		in.Title, in.Description, in.TargetAmount, in.Category, in.ImageURL, in.StartDate, in.EndDate, createdBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update overwrites the writable fields of a campaign.
func (r *CampaignRepo) Update(ctx context.Context, id uint64, in CampaignInput) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns SET title=?, description=?, target_amount=?, category=?, image_url=?, start_date=?, end_date=?
		 WHERE id=?`,
		in.Title, in.Description, in.TargetAmount, in.Category, in.ImageURL, in.StartDate, in.EndDate, id)
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

// SetStatus moves a campaign through its lifecycle.
func (r *CampaignRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE campaigns SET status=? WHERE id=?", status, id)
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

// Delete removes a campaign.
func (r *CampaignRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM campaigns WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddRaised increments the raised amount by a paid donation. Single-row
// UPDATE; the store's write guarantee makes it atomic without a transaction.
func (r *CampaignRepo) AddRaised(ctx context.Context, id uint64, amount float64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE campaigns SET raised_amount = raised_amount + ? WHERE id=?", amount, id)
	return err
}
