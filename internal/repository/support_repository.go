package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sanadhub/donations-backend/internal/model"
)

// SupportRepo persists campaign support messages and their reports.
type SupportRepo struct{ DB *sql.DB }

func NewSupportRepo(db *sql.DB) *SupportRepo { return &SupportRepo{DB: db} }

const supportColumns = "id,campaign_id,actor_user_id,type,quick_key,message,status,auto_flag,moderation_reason,created_at"

func scanSupport(scan func(dest ...any) error) (model.SupportMessage, error) {
	var (
		m                    model.SupportMessage
		quickKey, msg, modRe sql.NullString
	)
	err := scan(&m.ID, &m.CampaignID, &m.ActorUserID, &m.Type, &quickKey, &msg,
		&m.Status, &m.AutoFlag, &modRe, &m.CreatedAt)
	if err != nil {
		return model.SupportMessage{}, err
	}
	if quickKey.Valid {
		m.QuickKey = &quickKey.String
	}
	if msg.Valid {
		m.Message = &msg.String
	}
	if modRe.Valid {
		m.ModerationReason = &modRe.String
	}
	return m, nil
}

// Create inserts a support message and returns its id.
func (r *SupportRepo) Create(ctx context.Context, m model.SupportMessage) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO campaign_support_messages
			(campaign_id, actor_user_id, type, quick_key, message, status, auto_flag, moderation_reason)
		 VALUES (?,?,?,?,?,?,?,?)`,
		m.CampaignID, m.ActorUserID, m.Type, m.QuickKey, m.Message, m.Status, m.AutoFlag, m.ModerationReason)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Get fetches one support message by id.
func (r *SupportRepo) Get(ctx context.Context, id uint64) (model.SupportMessage, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+supportColumns+" FROM campaign_support_messages WHERE id=? LIMIT 1", id)
	m, err := scanSupport(row.Scan)
	if err == sql.ErrNoRows {
		return model.SupportMessage{}, ErrNotFound
	}
	return m, err
}

// CountRecentByActor counts an actor's messages on a campaign since the
// given instant. Backs the 3-per-24h posting limit.
func (r *SupportRepo) CountRecentByActor(ctx context.Context, campaignID, actorID uint64, since time.Time) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaign_support_messages
		 WHERE campaign_id=? AND actor_user_id=? AND created_at>=?`,
		campaignID, actorID, since).Scan(&n)
	return n, err
}

// SupportFilter narrows admin listings; the public listing pins
// status=visible and a campaign id.
type SupportFilter struct {
	CampaignID *uint64
	Status     string
	Query      string // substring over message/quick_key
}

// List returns support messages newest first plus the total count.
func (r *SupportRepo) List(ctx context.Context, f SupportFilter, limit, offset int) ([]model.SupportMessage, int, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if f.CampaignID != nil {
		where = append(where, "campaign_id=?")
		args = append(args, *f.CampaignID)
	}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	if f.Query != "" {
		where = append(where, "(message LIKE ? OR quick_key LIKE ?)")
		args = append(args, "%"+f.Query+"%", "%"+f.Query+"%")
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM campaign_support_messages"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+supportColumns+" FROM campaign_support_messages"+cond+" ORDER BY id DESC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.SupportMessage
	for rows.Next() {
		m, err := scanSupport(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

// Moderate sets the status and moderation reason of a message. The
// auto_flag bit is left as-is so the admin decision stays distinguishable
// from automatic flagging.
func (r *SupportRepo) Moderate(ctx context.Context, id uint64, status string, reason *string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE campaign_support_messages SET status=?, moderation_reason=? WHERE id=?",
		status, reason, id)
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

// Flag marks a message flagged with the given machine reason.
func (r *SupportRepo) Flag(ctx context.Context, id uint64, reason string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE campaign_support_messages SET status='flagged', auto_flag=1, moderation_reason=? WHERE id=?",
		reason, id)
	return err
}

// CreateReport records one user's report. The unique index turns duplicate
// reports into ErrConflict.
func (r *SupportRepo) CreateReport(ctx context.Context, rep model.SupportReport) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO support_reports (support_id, reporter_user_id, reason, note) VALUES (?,?,?,?)",
		rep.SupportID, rep.ReporterUserID, rep.Reason, rep.Note)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CountReports returns how many distinct users reported a message.
func (r *SupportRepo) CountReports(ctx context.Context, supportID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM support_reports WHERE support_id=?", supportID).Scan(&n)
	return n, err
}
