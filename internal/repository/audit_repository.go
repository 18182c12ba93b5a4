package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sanadhub/donations-backend/internal/model"
)

// AuditRepo appends and lists audit trail entries.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// Append inserts one audit entry. Callers on the hot path discard the
// returned error by contract.
func (r *AuditRepo) Append(ctx context.Context, e model.AuditEntry) error {
	var meta any
	if len(e.Meta) > 0 {
		meta = string(e.Meta)
	}
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO audit_logs (actor_id, action, entity_type, entity_id, meta, ip, user_agent)
		 VALUES (?,?,?,?,?,?,?)`,
		nullID(e.ActorID), e.Action, e.EntityType, nullID(e.EntityID), meta,
		nullStr(e.IP), nullStr(e.UserAgent))
	return err
}

// AuditFilter narrows List; zero values mean "any".
type AuditFilter struct {
	ActorID    *uint64
	Action     string
	EntityType string
	EntityID   *uint64
	From       *time.Time
	To         *time.Time
}

// List returns entries newest first with actor name/email decoration, plus
// the total count for pagination.
func (r *AuditRepo) List(ctx context.Context, f AuditFilter, limit, offset int) ([]model.AuditEntry, int, error) {
	where := make([]string, 0, 6)
	args := make([]any, 0, 8)
	if f.ActorID != nil {
		where = append(where, "a.actor_id=?")
		args = append(args, *f.ActorID)
	}
	if f.Action != "" {
		where = append(where, "a.action=?")
		args = append(args, f.Action)
	}
	if f.EntityType != "" {
		where = append(where, "a.entity_type=?")
		args = append(args, f.EntityType)
	}
	if f.EntityID != nil {
		where = append(where, "a.entity_id=?")
		args = append(args, *f.EntityID)
	}
	if f.From != nil {
		where = append(where, "a.created_at>=?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		where = append(where, "a.created_at<=?")
		args = append(args, *f.To)
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM audit_logs a"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT a.id,a.actor_id,a.action,a.entity_type,a.entity_id,a.meta,a.ip,a.user_agent,a.created_at,
			u.name,u.email
		FROM audit_logs a LEFT JOIN users u ON u.id=a.actor_id` +
		cond + " ORDER BY a.id DESC LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.AuditEntry
	for rows.Next() {
		var (
			e                  model.AuditEntry
			actorID, entityID  sql.NullInt64
			meta, ip, ua       sql.NullString
			actName, actEmail  sql.NullString
		)
		if err := rows.Scan(&e.ID, &actorID, &e.Action, &e.EntityType, &entityID, &meta, &ip, &ua,
			&e.CreatedAt, &actName, &actEmail); err != nil {
			return nil, 0, err
		}
		if actorID.Valid {
			v := uint64(actorID.Int64)
			e.ActorID = &v
		}
		if entityID.Valid {
			v := uint64(entityID.Int64)
			e.EntityID = &v
		}
		if meta.Valid {
			e.Meta = []byte(meta.String)
		}
		e.IP = ip.String
		e.UserAgent = ua.String
		if actName.Valid {
			e.ActorName = &actName.String
		}
		if actEmail.Valid {
			e.ActorEmail = &actEmail.String
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func nullID(v *uint64) any {
	if v == nil {
		return nil
	}
	return *v
}
