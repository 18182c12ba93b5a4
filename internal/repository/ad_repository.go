package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sanadhub/donations-backend/internal/model"
)

// AdRepo persists advertisements.
type AdRepo struct{ DB *sql.DB }

func NewAdRepo(db *sql.DB) *AdRepo { return &AdRepo{DB: db} }

const adColumns = "id,title,description,image_url,link_url,category,status,start_date,end_date,created_by,created_at,updated_at"

func scanAd(scan func(dest ...any) error) (model.Advertisement, error) {
	var (
		a                  model.Advertisement
		desc, img, link    sql.NullString
		startDate, endDate sql.NullTime
		createdBy          sql.NullInt64
	)
	err := scan(&a.ID, &a.Title, &desc, &img, &link, &a.Category, &a.Status,
		&startDate, &endDate, &createdBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Advertisement{}, err
	}
	if desc.Valid {
		a.Description = &desc.String
	}
	if img.Valid {
		a.ImageURL = &img.String
	}
	if link.Valid {
		a.LinkURL = &link.String
	}
	if startDate.Valid {
		a.StartDate = &startDate.Time
	}
	if endDate.Valid {
		a.EndDate = &endDate.Time
	}
	if createdBy.Valid {
		v := uint64(createdBy.Int64)
		a.CreatedBy = &v
	}
	return a, nil
}

// ListActive returns ads visible to the public right now: status active and
// inside the optional date window.
func (r *AdRepo) ListActive(ctx context.Context) ([]model.Advertisement, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+adColumns+` FROM advertisements
		 WHERE status='active'
		   AND (start_date IS NULL OR start_date <= UTC_TIMESTAMP())
		   AND (end_date IS NULL OR end_date >= UTC_TIMESTAMP())
		 ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAds(rows)
}

// List returns every ad, newest first (admin view).
func (r *AdRepo) List(ctx context.Context) ([]model.Advertisement, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+adColumns+" FROM advertisements ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAds(rows)
}

func collectAds(rows *sql.Rows) ([]model.Advertisement, error) {
	var out []model.Advertisement
	for rows.Next() {
		a, err := scanAd(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Get fetches one ad by id.
func (r *AdRepo) Get(ctx context.Context, id uint64) (model.Advertisement, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+adColumns+" FROM advertisements WHERE id=? LIMIT 1", id)
	a, err := scanAd(row.Scan)
	if err == sql.ErrNoRows {
		return model.Advertisement{}, ErrNotFound
	}
	return a, err
}

// AdInput carries the writable ad fields.
type AdInput struct {
	Title       string
	Description *string
	ImageURL    *string
	LinkURL     *string
	Category    string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Create inserts an inactive ad and returns its id.
func (r *AdRepo) Create(ctx context.Context, in AdInput, createdBy uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO advertisements (title, description, image_url, link_url, category, start_date, end_date, created_by)
		 VALUES (?,?,?,?,?,?,?,?)`,
		in.Title, in.Description, in.ImageURL, in.LinkURL, in.Category, in.StartDate, in.EndDate, createdBy)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update overwrites the writable fields of an ad.
func (r *AdRepo) Update(ctx context.Context, id uint64, in AdInput) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE advertisements SET title=?, description=?, image_url=?, link_url=?, category=?, start_date=?, end_date=?
		 WHERE id=?`,
		in.Title, in.Description, in.ImageURL, in.LinkURL, in.Category, in.StartDate, in.EndDate, id)
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

// SetStatus toggles an ad between active and inactive.
func (r *AdRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE advertisements SET status=? WHERE id=?", status, id)
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

// Delete removes an ad.
func (r *AdRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM advertisements WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
