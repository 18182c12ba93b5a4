package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// ReportRepo runs the aggregation queries behind the reporting endpoints.
type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// Summary mirrors the admin dashboard headline numbers.
type Summary struct {
	TotalDonationsAmount  float64 `json:"totalDonationsAmount"`
	TotalDonationsCount   int     `json:"totalDonationsCount"`
	UniqueDonorsCount     int     `json:"uniqueDonorsCount"`
	ActiveCampaignsCount  int     `json:"activeCampaignsCount"`
	PendingCampaignsCount int     `json:"pendingCampaignsCount"`
}

func dateCond(field string, from, to *time.Time) (string, []any) {
	parts := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if from != nil {
		parts = append(parts, field+">=?")
		args = append(args, *from)
	}
	if to != nil {
		parts = append(parts, field+"<=?")
		args = append(args, *to)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

// Summary aggregates donation totals in the window plus campaign counts.
func (r *ReportRepo) Summary(ctx context.Context, from, to *time.Time) (Summary, error) {
	var s Summary
	cond, args := dateCond("created_at", from, to)
	err := r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount),0), COUNT(*), COUNT(DISTINCT donor_id) FROM donations`+cond, args...).
		Scan(&s.TotalDonationsAmount, &s.TotalDonationsCount, &s.UniqueDonorsCount)
	if err != nil {
		return Summary{}, err
	}
	err = r.DB.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(status='active'),0), COALESCE(SUM(status='pending'),0) FROM campaigns`).
		Scan(&s.ActiveCampaignsCount, &s.PendingCampaignsCount)
	if err != nil {
		return Summary{}, err
	}
	return s, nil
}

// MonthTotal is one month's donation volume, month formatted YYYY-MM.
type MonthTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// DonationsByMonth sums donation amounts per calendar month.
func (r *ReportRepo) DonationsByMonth(ctx context.Context, from, to *time.Time) ([]MonthTotal, error) {
	cond, args := dateCond("created_at", from, to)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT DATE_FORMAT(created_at, '%Y-%m') AS month, COALESCE(SUM(amount),0)
		 FROM donations`+cond+` GROUP BY month ORDER BY month`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthTotal
	for rows.Next() {
		var m MonthTotal
		if err := rows.Scan(&m.Month, &m.Total); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CategoryTotal is one campaign category's donation volume.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// DonationsByCategory sums campaign donations per campaign category.
func (r *ReportRepo) DonationsByCategory(ctx context.Context, from, to *time.Time) ([]CategoryTotal, error) {
	cond, args := dateCond("d.created_at", from, to)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.category, COALESCE(SUM(d.amount),0), COUNT(*)
		 FROM donations d JOIN campaigns c ON c.id=d.campaign_id`+cond+`
		 GROUP BY c.category ORDER BY 2 DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryTotal
	for rows.Next() {
		var c CategoryTotal
		if err := rows.Scan(&c.Category, &c.Total, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CampaignTotal is one campaign's donation volume.
type CampaignTotal struct {
	CampaignID uint64  `json:"campaign_id"`
	Title      string  `json:"title"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
}

// TopCampaigns returns the campaigns with the highest donation volume.
func (r *ReportRepo) TopCampaigns(ctx context.Context, from, to *time.Time, limit int) ([]CampaignTotal, error) {
	cond, args := dateCond("d.created_at", from, to)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT c.id, c.title, COALESCE(SUM(d.amount),0) AS total, COUNT(*)
		 FROM donations d JOIN campaigns c ON c.id=d.campaign_id`+cond+`
		 GROUP BY c.id, c.title ORDER BY total DESC LIMIT ?`,
		append(args, limit)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CampaignTotal
	for rows.Next() {
		var c CampaignTotal
		if err := rows.Scan(&c.CampaignID, &c.Title, &c.Total, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
