package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sanadhub/donations-backend/internal/model"
)

// DonationRepo persists donations against campaigns, cases and the
// emergency fund.
type DonationRepo struct{ DB *sql.DB }

func NewDonationRepo(db *sql.DB) *DonationRepo { return &DonationRepo{DB: db} }

const donationSelect = `SELECT d.id,d.donor_id,d.campaign_id,d.case_id,d.emergency_id,d.amount,
	d.payment_method,d.payment_status,d.created_at,c.title,cs.title,u.name,u.email
	FROM donations d
	LEFT JOIN campaigns c ON c.id=d.campaign_id
	LEFT JOIN cases cs ON cs.id=d.case_id
	LEFT JOIN users u ON u.id=d.donor_id`

func scanDonation(scan func(dest ...any) error) (model.Donation, error) {
	var (
		d                              model.Donation
		campaignID, caseID, emergID    sql.NullInt64
		campaignTitle, caseTitle       sql.NullString
		donorName, donorEmail          sql.NullString
	)
	err := scan(&d.ID, &d.DonorID, &campaignID, &caseID, &emergID, &d.Amount,
		&d.PaymentMethod, &d.PaymentStatus, &d.CreatedAt,
		&campaignTitle, &caseTitle, &donorName, &donorEmail)
	if err != nil {
		return model.Donation{}, err
	}
	if campaignID.Valid {
		v := uint64(campaignID.Int64)
		d.CampaignID = &v
	}
	if caseID.Valid {
		v := uint64(caseID.Int64)
		d.CaseID = &v
	}
	if emergID.Valid {
		v := uint64(emergID.Int64)
		d.EmergencyID = &v
	}
	if campaignTitle.Valid {
		d.CampaignTitle = &campaignTitle.String
	}
	if caseTitle.Valid {
		d.CaseTitle = &caseTitle.String
	}
	if donorName.Valid {
		d.DonorName = &donorName.String
	}
	if donorEmail.Valid {
		d.DonorEmail = &donorEmail.String
	}
	return d, nil
}

// Create inserts a donation and returns its id. Target exclusivity is
// validated by the handler before the insert.
func (r *DonationRepo) Create(ctx context.Context, d model.Donation) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO donations (donor_id, campaign_id, case_id, emergency_id, amount, payment_method, payment_status)
		 VALUES (?,?,?,?,?,?,?)`,
		d.DonorID, nullID(d.CampaignID), nullID(d.CaseID), nullID(d.EmergencyID),
		d.Amount, d.PaymentMethod, d.PaymentStatus)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Get fetches one donation by id, decorated.
func (r *DonationRepo) Get(ctx context.Context, id uint64) (model.Donation, error) {
	row := r.DB.QueryRowContext(ctx, donationSelect+" WHERE d.id=? LIMIT 1", id)
	d, err := scanDonation(row.Scan)
	if err == sql.ErrNoRows {
		return model.Donation{}, ErrNotFound
	}
	return d, err
}

// DonationFilter narrows List.
type DonationFilter struct {
	DonorID      *uint64
	CampaignID   *uint64
	CaseID       *uint64
	EmergencyID  *uint64
	PaymentState string
	From         *time.Time
	To           *time.Time
}

// List returns donations newest first plus the total for pagination.
func (r *DonationRepo) List(ctx context.Context, f DonationFilter, limit, offset int) ([]model.Donation, int, error) {
	where := make([]string, 0, 7)
	args := make([]any, 0, 8)
	if f.DonorID != nil {
		where = append(where, "d.donor_id=?")
		args = append(args, *f.DonorID)
	}
	if f.CampaignID != nil {
		where = append(where, "d.campaign_id=?")
		args = append(args, *f.CampaignID)
	}
	if f.CaseID != nil {
		where = append(where, "d.case_id=?")
		args = append(args, *f.CaseID)
	}
	if f.EmergencyID != nil {
		where = append(where, "d.emergency_id=?")
		args = append(args, *f.EmergencyID)
	}
	if f.PaymentState != "" {
		where = append(where, "d.payment_status=?")
		args = append(args, f.PaymentState)
	}
	if f.From != nil {
		where = append(where, "d.created_at>=?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		where = append(where, "d.created_at<=?")
		args = append(args, *f.To)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM donations d"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		donationSelect+cond+" ORDER BY d.id DESC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Donation
	for rows.Next() {
		d, err := scanDonation(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}
