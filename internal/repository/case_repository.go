package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sanadhub/donations-backend/internal/model"
)

// CaseRepo persists beneficiary aid cases and their progress updates.
type CaseRepo struct{ DB *sql.DB }

func NewCaseRepo(db *sql.DB) *CaseRepo { return &CaseRepo{DB: db} }

const caseColumns = `id,type,title,description,category,target_amount,raised_amount,currency,status,priority,
	beneficiary_id,assigned_partner_id,rejection_reason,privacy_mode,alias_name,hide_images,city,
	start_date,end_date,created_at,updated_at`

func scanCase(scan func(dest ...any) error) (model.Case, error) {
	var (
		c                  model.Case
		partnerID          sql.NullInt64
		rejection          sql.NullString
		alias, city        sql.NullString
		startDate, endDate sql.NullTime
	)
	err := scan(&c.ID, &c.Type, &c.Title, &c.Description, &c.Category, &c.TargetAmount, &c.RaisedAmount,
		&c.Currency, &c.Status, &c.Priority, &c.BeneficiaryID, &partnerID, &rejection, &c.PrivacyMode,
		&alias, &c.HideImages, &city, &startDate, &endDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return model.Case{}, err
	}
	if partnerID.Valid {
		v := uint64(partnerID.Int64)
		c.AssignedPartnerID = &v
	}
	if rejection.Valid {
		c.RejectionReason = &rejection.String
	}
	if alias.Valid {
		c.AliasName = &alias.String
	}
	if city.Valid {
		c.City = &city.String
	}
	if startDate.Valid {
		c.StartDate = &startDate.Time
	}
	if endDate.Valid {
		c.EndDate = &endDate.Time
	}
	return c, nil
}

// CaseInput carries the fields a beneficiary submits.
type CaseInput struct {
	Type         string
	Title        string
	Description  string
	Category     string
	TargetAmount float64
	Currency     string
	PrivacyMode  string
	AliasName    *string
	HideImages   bool
	City         *string
	StartDate    *time.Time
	EndDate      *time.Time
}

// Create inserts a pending case for beneficiaryID and returns its id.
func (r *CaseRepo) Create(ctx context.Context, in CaseInput, beneficiaryID uint64) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO cases (type, title, description, category, target_amount, currency, priority,
			beneficiary_id, privacy_mode, alias_name, hide_images, city, start_date, end_date)
		 VALUES (?,?,?,?,?,?,'normal',?,?,?,?,?,?,?)`,
		in.Type, in.Title, in.Description, in.Category, in.TargetAmount, in.Currency,
		beneficiaryID, in.PrivacyMode, in.AliasName, in.HideImages, in.City, in.StartDate, in.EndDate)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Get fetches one case by id.
func (r *CaseRepo) Get(ctx context.Context, id uint64) (model.Case, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+caseColumns+" FROM cases WHERE id=? LIMIT 1", id)
	c, err := scanCase(row.Scan)
	if err == sql.ErrNoRows {
		return model.Case{}, ErrNotFound
	}
	return c, err
}

// Update overwrites the beneficiary-editable fields of a case. Status checks
// happen in the handler; the repository applies what it is given.
func (r *CaseRepo) Update(ctx context.Context, id uint64, in CaseInput) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE cases SET type=?, title=?, description=?, category=?, target_amount=?, currency=?,
			privacy_mode=?, alias_name=?, hide_images=?, city=?, start_date=?, end_date=?
		 WHERE id=?`,
		in.Type, in.Title, in.Description, in.Category, in.TargetAmount, in.Currency,
		in.PrivacyMode, in.AliasName, in.HideImages, in.City, in.StartDate, in.EndDate, id)
	return err
}

// CaseFilter narrows case listings.
type CaseFilter struct {
	Statuses      []string // non-empty: restrict to these statuses
	Type          string
	Category      string
	Priority      string
	City          string
	Query         string // substring over title/description
	BeneficiaryID *uint64
}

// List returns cases newest first along with the total for pagination.
func (r *CaseRepo) List(ctx context.Context, f CaseFilter, limit, offset int) ([]model.Case, int, error) {
	where := make([]string, 0, 7)
	args := make([]any, 0, 8)
	if len(f.Statuses) > 0 {
		ph := strings.TrimSuffix(strings.Repeat("?,", len(f.Statuses)), ",")
		where = append(where, "status IN ("+ph+")")
		for _, s := range f.Statuses {
			args = append(args, s)
		}
	}
	if f.Type != "" {
		where = append(where, "type=?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		where = append(where, "category=?")
		args = append(args, f.Category)
	}
	if f.Priority != "" {
		where = append(where, "priority=?")
		args = append(args, f.Priority)
	}
	if f.City != "" {
		where = append(where, "city=?")
		args = append(args, f.City)
	}
	if f.Query != "" {
		where = append(where, "(title LIKE ? OR description LIKE ?)")
		args = append(args, "%"+f.Query+"%", "%"+f.Query+"%")
	}
	if f.BeneficiaryID != nil {
		where = append(where, "beneficiary_id=?")
		args = append(args, *f.BeneficiaryID)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM cases"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+caseColumns+" FROM cases"+cond+" ORDER BY id DESC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Case
	for rows.Next() {
		c, err := scanCase(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// SetStatus moves a case through its lifecycle; reason is persisted only for
// rejections and cleared otherwise.
func (r *CaseRepo) SetStatus(ctx context.Context, id uint64, status string, reason *string) error {
	if status != "rejected" {
		reason = nil
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE cases SET status=?, rejection_reason=? WHERE id=?", status, reason, id)
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

// SetPriority changes the triage priority.
func (r *CaseRepo) SetPriority(ctx context.Context, id uint64, priority string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE cases SET priority=? WHERE id=?", priority, id)
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

// SetPartner assigns (or clears) the partner organization handling the case.
func (r *CaseRepo) SetPartner(ctx context.Context, id uint64, partnerID *uint64) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE cases SET assigned_partner_id=? WHERE id=?", partnerID, id)
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

// AddRaised increments the raised amount by a paid donation.
func (r *CaseRepo) AddRaised(ctx context.Context, id uint64, amount float64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE cases SET raised_amount = raised_amount + ? WHERE id=?", amount, id)
	return err
}

// AddUpdate appends a progress note and returns its id.
func (r *CaseRepo) AddUpdate(ctx context.Context, caseID, authorID uint64, body string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO case_updates (case_id, author_id, body) VALUES (?,?,?)", caseID, authorID, body)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListUpdates returns a case's progress notes, newest first.
func (r *CaseRepo) ListUpdates(ctx context.Context, caseID uint64) ([]model.CaseUpdate, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,case_id,author_id,body,created_at FROM case_updates WHERE case_id=? ORDER BY id DESC",
		caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CaseUpdate
	for rows.Next() {
		var u model.CaseUpdate
		if err := rows.Scan(&u.ID, &u.CaseID, &u.AuthorID, &u.Body, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
