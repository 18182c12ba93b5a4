package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sanadhub/donations-backend/internal/model"
)

// TokenRepo persists revocable refresh sessions, indexed by the SHA-256
// hash of the refresh token. The raw token is never stored.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Create inserts a new non-revoked session and returns its id.
func (r *TokenRepo) Create(ctx context.Context, userID uint64, tokenHash, userAgent, ip string, expiresAt time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, user_agent, ip, expires_at) VALUES (?,?,?,?,?)",
		userID, tokenHash, nullStr(userAgent), nullStr(ip), expiresAt)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

func scanSession(row *sql.Row) (model.RefreshSession, error) {
	var (
		s      model.RefreshSession
		ua, ip sql.NullString
	)
	err := row.Scan(&s.ID, &s.UserID, &s.TokenHash, &s.Revoked, &ua, &ip, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return model.RefreshSession{}, ErrNotFound
	}
	if err != nil {
		return model.RefreshSession{}, err
	}
	s.UserAgent = ua.String
	s.IP = ip.String
	return s, nil
}

// FindByHash returns the newest session for a token hash regardless of its
// state. Used only to resolve the audit actor at logout.
func (r *TokenRepo) FindByHash(ctx context.Context, tokenHash string) (model.RefreshSession, error) {
	return scanSession(r.DB.QueryRowContext(ctx,
		`SELECT id,user_id,token_hash,revoked,user_agent,ip,expires_at,created_at
		 FROM refresh_tokens WHERE token_hash=? ORDER BY id DESC LIMIT 1`, tokenHash))
}

// FindActiveByHash returns a usable session: not revoked and not yet
// expired. Expired and revoked sessions are indistinguishable to the
// caller; both yield ErrNotFound (passive expiry, no sweep).
func (r *TokenRepo) FindActiveByHash(ctx context.Context, tokenHash string) (model.RefreshSession, error) {
	return scanSession(r.DB.QueryRowContext(ctx,
		`SELECT id,user_id,token_hash,revoked,user_agent,ip,expires_at,created_at
		 FROM refresh_tokens WHERE token_hash=? AND revoked=0 AND expires_at > UTC_TIMESTAMP() LIMIT 1`,
		tokenHash))
}

// RevokeAllByHash marks every non-revoked session matching the hash as
// revoked and returns how many rows changed. Defensive against duplicate
// rows for the same hash; normally at most one exists.
func (r *TokenRepo) RevokeAllByHash(ctx context.Context, tokenHash string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE token_hash=? AND revoked=0", tokenHash)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// RevokeAllForUser revokes every active session a user holds. Called when an
// account is deactivated or deleted.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked=1 WHERE user_id=? AND revoked=0", userID)
	return err
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
