package auth

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/repository"
	"github.com/sanadhub/donations-backend/internal/utils"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore is the credential store consumed by the service. Not-found is
// signaled with repository.ErrNotFound; duplicate emails on Create with
// repository.ErrEmailExists.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id uint64) (model.User, error)
	Create(ctx context.Context, name, email, passwordHash, role string) (uint64, error)
	RecordFailedAttempt(ctx context.Context, id uint64) error
	RecordSuccess(ctx context.Context, id uint64) error
}

// SessionStore persists revocable refresh sessions, keyed by token hash.
type SessionStore interface {
	Create(ctx context.Context, userID uint64, tokenHash, userAgent, ip string, expiresAt time.Time) (uint64, error)
	FindByHash(ctx context.Context, tokenHash string) (model.RefreshSession, error)
	FindActiveByHash(ctx context.Context, tokenHash string) (model.RefreshSession, error)
	RevokeAllByHash(ctx context.Context, tokenHash string) (int64, error)
}

// AuditSink receives audit entries. Append errors are deliberately discarded
// by the service: an audit failure must never turn a successful login or
// logout into a user-visible failure.
type AuditSink interface {
	Append(ctx context.Context, entry model.AuditEntry) error
}

// RequestMeta carries best-effort request attribution stored with sessions
// and audit entries.
type RequestMeta struct {
	UserAgent string
	IP        string
}

// Service orchestrates registration, login, refresh and logout.
type Service struct {
	Users      UserStore
	Sessions   SessionStore
	Codec      *Codec
	Audit      AuditSink // optional
	BcryptCost int
}

func NewService(users UserStore, sessions SessionStore, codec *Codec, audit AuditSink, bcryptCost int) *Service {
	return &Service{Users: users, Sessions: sessions, Codec: codec, Audit: audit, BcryptCost: bcryptCost}
}

// LoginResult is returned by Login: the access token travels in the response
// body, the refresh token as an HTTP-only cookie.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         model.User
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user account and returns a signed access token for it.
// The admin role cannot be self-assigned; unknown roles fall back to donor.
func (s *Service) Register(ctx context.Context, name, email, password, role string, meta RequestMeta) (string, model.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return "", model.User{}, ErrValidation
	}
	if !emailRegex.MatchString(email) {
		return "", model.User{}, ErrValidation
	}
	if len(password) < 6 {
		return "", model.User{}, ErrValidation
	}
	if role != model.RoleDonor && role != model.RoleBeneficiary {
		role = model.RoleDonor
	}

	hash, err := utils.HashPassword(password, s.BcryptCost)
	if err != nil {
		return "", model.User{}, err
	}
	id, err := s.Users.Create(ctx, name, email, hash, role)
	if err != nil {
		return "", model.User{}, err
	}
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		return "", model.User{}, err
	}
	token, err := s.Codec.IssueAccess(user)
	if err != nil {
		return "", model.User{}, err
	}
	s.audit(ctx, "auth_register", "user", &user.ID, &user.ID, meta, nil)
	return token, user, nil
}

// Authenticate verifies an email/password pair and enforces lockout. It is
// the only code path that mutates the failed-attempt counters. Lockout and
// inactivity are checked before the password compare, so attempts against a
// locked account never extend the lock.
func (s *Service) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" || !emailRegex.MatchString(email) {
		return model.User{}, ErrValidation
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Same error as a wrong password: no user-existence leakage.
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now().UTC()) {
		return model.User{}, ErrAccountLocked
	}
	if user.Status != model.StatusActive {
		return model.User{}, ErrAccountInactive
	}

	if !utils.VerifyPassword(user.PasswordHash, password) {
		if err := s.Users.RecordFailedAttempt(ctx, user.ID); err != nil {
			return model.User{}, err
		}
		return model.User{}, ErrInvalidCredentials
	}

	if err := s.Users.RecordSuccess(ctx, user.ID); err != nil {
		return model.User{}, err
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	return user, nil
}

// Login authenticates and opens a new refresh session. Each login creates
// exactly one session record; prior sessions are left untouched.
func (s *Service) Login(ctx context.Context, email, password string, meta RequestMeta) (LoginResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}

	access, err := s.Codec.IssueAccess(user)
	if err != nil {
		return LoginResult{}, err
	}
	refresh, err := s.Codec.IssueRefresh(user)
	if err != nil {
		return LoginResult{}, err
	}

	expiresAt := time.Now().UTC().Add(s.Codec.RefreshTTL())
	if _, err := s.Sessions.Create(ctx, user.ID, HashToken(refresh), meta.UserAgent, meta.IP, expiresAt); err != nil {
		return LoginResult{}, err
	}

	s.audit(ctx, "auth_login", "user", &user.ID, &user.ID, meta,
		map[string]any{"ip": meta.IP, "user_agent": meta.UserAgent})
	return LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// refresh token and its session record are not rotated; expired and revoked
// sessions are indistinguishable to the caller.
func (s *Service) Refresh(ctx context.Context, rawRefresh string, meta RequestMeta) (string, error) {
	if rawRefresh == "" {
		return "", ErrMissingToken
	}
	if _, err := s.Codec.Verify(rawRefresh); err != nil {
		return "", ErrInvalidToken
	}

	sess, err := s.Sessions.FindActiveByHash(ctx, HashToken(rawRefresh))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}

	user, err := s.Users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if user.Status != model.StatusActive {
		return "", ErrAccountInactive
	}

	access, err := s.Codec.IssueAccess(user)
	if err != nil {
		return "", err
	}
	s.audit(ctx, "auth_refresh", "user", &user.ID, &user.ID, meta, nil)
	return access, nil
}

// Logout revokes every active session matching the presented refresh token.
// It is idempotent: a missing or unknown cookie is not an error. The actor
// recorded in the audit trail is the session owner when the token is known,
// otherwise the currently authenticated identity, if any.
func (s *Service) Logout(ctx context.Context, rawRefresh string, currentUserID *uint64, meta RequestMeta) error {
	actorID := currentUserID

	if rawRefresh != "" {
		hash := HashToken(rawRefresh)
		if sess, err := s.Sessions.FindByHash(ctx, hash); err == nil {
			actorID = &sess.UserID
		}
		if _, err := s.Sessions.RevokeAllByHash(ctx, hash); err != nil {
			return err
		}
	}

	s.audit(ctx, "auth_logout", "user", actorID, actorID, meta, nil)
	return nil
}

// audit appends a best-effort audit record; the error is discarded on
// purpose (see AuditSink).
func (s *Service) audit(ctx context.Context, action, entityType string, entityID, actorID *uint64, meta RequestMeta, extra map[string]any) {
	if s.Audit == nil {
		return
	}
	var raw []byte
	if extra != nil {
		raw, _ = json.Marshal(extra)
	}
	_ = s.Audit.Append(ctx, model.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Meta:       raw,
		IP:         meta.IP,
		UserAgent:  meta.UserAgent,
	})
}
