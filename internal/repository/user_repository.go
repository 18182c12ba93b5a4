package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sanadhub/donations-backend/internal/model"
)

// UserRepo persists user identity/credential records and owns the
// failed-login counters.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,role,status,preferred_language,failed_login_attempts,locked_until,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var (
		u           model.User
		lockedUntil sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.PreferredLanguage, &u.FailedLoginAttempts, &lockedUntil, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	if lockedUntil.Valid {
		t := lockedUntil.Time
		u.LockedUntil = &t
	}
	return u, nil
}

// Create inserts a user with a pre-hashed password and returns its id.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, passwordHash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CreateWithStatus is the administrative variant of Create.
func (r *UserRepo) CreateWithStatus(ctx context.Context, name, email, passwordHash, role, status string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, status) VALUES (?,?,?,?,?)",
		name, email, passwordHash, role, status)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// FindByEmail fetches a user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// RecordFailedAttempt increments the failed-login counter. When the counter
// reaches the threshold the lock engages for the lockout window and the
// counter resets to zero. Both columns move in one statement, so concurrent
// failures each increment from the stored value rather than a stale read.
func (r *UserRepo) RecordFailedAttempt(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE users SET
			locked_until = IF(failed_login_attempts + 1 >= ?, DATE_ADD(UTC_TIMESTAMP(), INTERVAL ? MINUTE), NULL),
			failed_login_attempts = IF(failed_login_attempts + 1 >= ?, 0, failed_login_attempts + 1)
		WHERE id = ?`,
		model.LockoutThreshold, int(model.LockoutDuration/time.Minute), model.LockoutThreshold, id)
	return err
}

// RecordSuccess resets the failed-login counter and clears any lock.
func (r *UserRepo) RecordSuccess(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts=0, locked_until=NULL WHERE id=?", id)
	return err
}

// List returns all users, newest first. Credential columns are selected but
// handlers never serialize them.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var (
			u           model.User
			lockedUntil sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
			&u.PreferredLanguage, &u.FailedLoginAttempts, &lockedUntil, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if lockedUntil.Valid {
			t := lockedUntil.Time
			u.LockedUntil = &t
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UserUpdate lists the mutable administrative fields; nil means unchanged.
type UserUpdate struct {
	Name              *string
	Role              *string
	Status            *string
	PreferredLanguage *string
	PasswordHash      *string
}

// Update applies the non-nil fields of upd to the user.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd UserUpdate) error {
	set := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if upd.Name != nil {
		set = append(set, "name=?")
		args = append(args, *upd.Name)
	}
	if upd.Role != nil {
		set = append(set, "role=?")
		args = append(args, *upd.Role)
	}
	if upd.Status != nil {
		set = append(set, "status=?")
		args = append(args, *upd.Status)
	}
	if upd.PreferredLanguage != nil {
		set = append(set, "preferred_language=?")
		args = append(args, *upd.PreferredLanguage)
	}
	if upd.PasswordHash != nil {
		set = append(set, "password_hash=?")
		args = append(args, *upd.PasswordHash)
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(set, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return ferr
		}
	}
	return err
}

// SetStatus flips the account status (active/inactive).
func (r *UserRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, ferr := r.FindByID(ctx, id); ferr != nil {
			return ferr
		}
	}
	return nil
}

// Delete removes a user record. Administrative operation only; the auth
// flows never delete users.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// isDuplicateKey reports a MySQL 1062 duplicate-entry violation.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
