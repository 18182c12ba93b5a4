package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sanadhub/donations-backend/internal/model"
	"github.com/sanadhub/donations-backend/internal/repository"
	"github.com/sanadhub/donations-backend/internal/utils"
)

// memUserStore mirrors the SQL lockout semantics in memory: the failure
// counter resets to zero the moment the lock engages.
type memUserStore struct {
	nextID uint64
	users  map[uint64]*model.User
	now    func() time.Time
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[uint64]*model.User{}, now: func() time.Time { return time.Now().UTC() }}
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *memUserStore) FindByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return *u, nil
}

func (s *memUserStore) Create(_ context.Context, name, email, passwordHash, role string) (uint64, error) {
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	s.nextID++
	s.users[s.nextID] = &model.User{
		ID:           s.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       model.StatusActive,
	}
	return s.nextID, nil
}

func (s *memUserStore) RecordFailedAttempt(_ context.Context, id uint64) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if u.FailedLoginAttempts+1 >= model.LockoutThreshold {
		until := s.now().Add(model.LockoutDuration)
		u.LockedUntil = &until
		u.FailedLoginAttempts = 0
	} else {
		u.FailedLoginAttempts++
	}
	return nil
}

func (s *memUserStore) RecordSuccess(_ context.Context, id uint64) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	return nil
}

type memSessionStore struct {
	nextID   uint64
	sessions map[uint64]*model.RefreshSession
	now      func() time.Time
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[uint64]*model.RefreshSession{}, now: func() time.Time { return time.Now().UTC() }}
}

func (s *memSessionStore) Create(_ context.Context, userID uint64, tokenHash, userAgent, ip string, expiresAt time.Time) (uint64, error) {
	s.nextID++
	s.sessions[s.nextID] = &model.RefreshSession{
		ID: s.nextID, UserID: userID, TokenHash: tokenHash,
		UserAgent: userAgent, IP: ip, ExpiresAt: expiresAt,
	}
	return s.nextID, nil
}

func (s *memSessionStore) FindByHash(_ context.Context, tokenHash string) (model.RefreshSession, error) {
	for _, sess := range s.sessions {
		if sess.TokenHash == tokenHash {
			return *sess, nil
		}
	}
	return model.RefreshSession{}, repository.ErrNotFound
}

func (s *memSessionStore) FindActiveByHash(_ context.Context, tokenHash string) (model.RefreshSession, error) {
	for _, sess := range s.sessions {
		if sess.TokenHash == tokenHash && !sess.Revoked && sess.ExpiresAt.After(s.now()) {
			return *sess, nil
		}
	}
	return model.RefreshSession{}, repository.ErrNotFound
}

func (s *memSessionStore) RevokeAllByHash(_ context.Context, tokenHash string) (int64, error) {
	var n int64
	for _, sess := range s.sessions {
		if sess.TokenHash == tokenHash && !sess.Revoked {
			sess.Revoked = true
			n++
		}
	}
	return n, nil
}

type memAudit struct {
	entries []model.AuditEntry
}

func (a *memAudit) Append(_ context.Context, e model.AuditEntry) error {
	a.entries = append(a.entries, e)
	return nil
}

type fixture struct {
	svc      *Service
	users    *memUserStore
	sessions *memSessionStore
	audit    *memAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newMemUserStore()
	sessions := newMemSessionStore()
	audit := &memAudit{}
	codec := NewCodec("test-secret", 15*time.Minute, 24*time.Hour)
	return &fixture{
		svc:      NewService(users, sessions, codec, audit, bcrypt.MinCost),
		users:    users,
		sessions: sessions,
		audit:    audit,
	}
}

func (f *fixture) seedUser(t *testing.T, email, password string) uint64 {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	id, err := f.users.Create(context.Background(), "Seed User", email, hash, model.RoleDonor)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return id
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"empty name", "", "a@b.com", "secret1"},
		{"empty email", "A", "", "secret1"},
		{"bad email", "A", "not-an-email", "secret1"},
		{"spaces in email", "A", "a b@c.com", "secret1"},
		{"short password", "A", "a@b.com", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.svc.Register(ctx, tt.userName, tt.email, tt.password, model.RoleDonor, RequestMeta{})
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("got %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegisterSanitizesRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, u, err := f.svc.Register(ctx, "Eve", "eve@example.com", "secret1", "admin", RequestMeta{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != model.RoleDonor {
		t.Errorf("role = %q, want donor", u.Role)
	}

	_, u, err = f.svc.Register(ctx, "Bob", "bob@example.com", "secret1", model.RoleBeneficiary, RequestMeta{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != model.RoleBeneficiary {
		t.Errorf("role = %q, want beneficiary", u.Role)
	}
}

func TestRegisterNormalizesEmailAndIssuesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, u, err := f.svc.Register(ctx, "Ann", "  Ann@Example.COM ", "secret1", model.RoleDonor, RequestMeta{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ann@example.com" {
		t.Errorf("email = %q, want ann@example.com", u.Email)
	}
	claims, err := f.svc.Codec.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != u.ID || claims.TokenType != TokenTypeAccess {
		t.Errorf("claims = %+v", claims)
	}
	if len(f.sessions.sessions) != 0 {
		t.Error("register must not open a refresh session")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "dup@example.com", "secret1")

	_, _, err := f.svc.Register(ctx, "Dup", "dup@example.com", "secret1", model.RoleDonor, RequestMeta{})
	if !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("got %v, want ErrEmailExists", err)
	}
}

func TestAuthenticateUnknownEmailLooksLikeBadPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "known@example.com", "secret1")

	_, errUnknown := f.svc.Authenticate(ctx, "nobody@example.com", "whatever1")
	_, errWrongPass := f.svc.Authenticate(ctx, "known@example.com", "wrong-pass")
	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", errWrongPass)
	}
}

func TestLockoutEngagesAtThreshold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedUser(t, "lock@example.com", "secret1")

	for i := 0; i < model.LockoutThreshold; i++ {
		_, err := f.svc.Authenticate(ctx, "lock@example.com", "wrong-pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: got %v, want ErrInvalidCredentials", i+1, err)
		}
	}

	u := f.users.users[id]
	if u.LockedUntil == nil {
		t.Fatal("account not locked after threshold failures")
	}
	if u.FailedLoginAttempts != 0 {
		t.Errorf("counter = %d, want 0 after lock engages", u.FailedLoginAttempts)
	}

	// Even the correct password is refused while locked.
	_, err := f.svc.Authenticate(ctx, "lock@example.com", "secret1")
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("got %v, want ErrAccountLocked", err)
	}
}

func TestLockExpiresAndCountingRestarts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedUser(t, "relock@example.com", "secret1")

	past := time.Now().UTC().Add(-time.Minute)
	f.users.users[id].LockedUntil = &past

	// Lock expired: the correct password works and clears the lock.
	u, err := f.svc.Authenticate(ctx, "relock@example.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate after expiry: %v", err)
	}
	if u.LockedUntil != nil || u.FailedLoginAttempts != 0 {
		t.Errorf("lock state not cleared: %+v", u)
	}

	// A wrong password after expiry counts from one, not from the old tally.
	if _, err := f.svc.Authenticate(ctx, "relock@example.com", "nope-nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
	if got := f.users.users[id].FailedLoginAttempts; got != 1 {
		t.Errorf("counter = %d, want 1", got)
	}
}

func TestSuccessResetsCounter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedUser(t, "reset@example.com", "secret1")

	for i := 0; i < 3; i++ {
		_, _ = f.svc.Authenticate(ctx, "reset@example.com", "wrong-pass")
	}
	if got := f.users.users[id].FailedLoginAttempts; got != 3 {
		t.Fatalf("counter = %d, want 3", got)
	}
	if _, err := f.svc.Authenticate(ctx, "reset@example.com", "secret1"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got := f.users.users[id].FailedLoginAttempts; got != 0 {
		t.Errorf("counter = %d, want 0 after success", got)
	}
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedUser(t, "gone@example.com", "secret1")
	f.users.users[id].Status = model.StatusInactive

	_, err := f.svc.Authenticate(ctx, "gone@example.com", "secret1")
	if !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("got %v, want ErrAccountInactive", err)
	}
}

func TestLoginOpensOneSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedUser(t, "login@example.com", "secret1")

	res, err := f.svc.Login(ctx, "login@example.com", "secret1", RequestMeta{UserAgent: "go-test", IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(f.sessions.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(f.sessions.sessions))
	}
	sess, err := f.sessions.FindActiveByHash(ctx, HashToken(res.RefreshToken))
	if err != nil {
		t.Fatalf("session lookup by hash: %v", err)
	}
	if sess.UserID != id {
		t.Errorf("session user = %d, want %d", sess.UserID, id)
	}
	if sess.TokenHash == res.RefreshToken {
		t.Error("session stores the raw refresh token")
	}

	// A second login adds a session without touching the first.
	if _, err := f.svc.Login(ctx, "login@example.com", "secret1", RequestMeta{}); err != nil {
		t.Fatalf("second login: %v", err)
	}
	if len(f.sessions.sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(f.sessions.sessions))
	}
	if _, err := f.sessions.FindActiveByHash(ctx, HashToken(res.RefreshToken)); err != nil {
		t.Error("first session was disturbed by the second login")
	}
}

func TestRefreshDoesNotRotate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "fresh@example.com", "secret1")

	res, err := f.svc.Login(ctx, "fresh@example.com", "secret1", RequestMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access, err := f.svc.Refresh(ctx, res.RefreshToken, RequestMeta{})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	claims, err := f.svc.Codec.Verify(access)
	if err != nil || claims.TokenType != TokenTypeAccess {
		t.Fatalf("refresh returned a bad access token: %v", err)
	}
	if len(f.sessions.sessions) != 1 {
		t.Fatalf("sessions = %d, want 1 (no rotation)", len(f.sessions.sessions))
	}

	// The same refresh token keeps working.
	if _, err := f.svc.Refresh(ctx, res.RefreshToken, RequestMeta{}); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
}

func TestRefreshErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedUser(t, "refresh-err@example.com", "secret1")

	if _, err := f.svc.Refresh(ctx, "", RequestMeta{}); !errors.Is(err, ErrMissingToken) {
		t.Errorf("empty token: got %v, want ErrMissingToken", err)
	}
	if _, err := f.svc.Refresh(ctx, "garbage.token.value", RequestMeta{}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v, want ErrInvalidToken", err)
	}

	// Valid signature but no stored session.
	orphan, err := f.svc.Codec.IssueRefresh(model.User{ID: id, Role: model.RoleDonor})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := f.svc.Refresh(ctx, orphan, RequestMeta{}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("orphan token: got %v, want ErrInvalidToken", err)
	}

	// Revoked session.
	res, err := f.svc.Login(ctx, "refresh-err@example.com", "secret1", RequestMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := f.sessions.RevokeAllByHash(ctx, HashToken(res.RefreshToken)); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := f.svc.Refresh(ctx, res.RefreshToken, RequestMeta{}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("revoked session: got %v, want ErrInvalidToken", err)
	}
}

func TestRefreshInactiveUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.seedUser(t, "dormant@example.com", "secret1")

	res, err := f.svc.Login(ctx, "dormant@example.com", "secret1", RequestMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	f.users.users[id].Status = model.StatusInactive

	if _, err := f.svc.Refresh(ctx, res.RefreshToken, RequestMeta{}); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("got %v, want ErrAccountInactive", err)
	}
}

func TestLogoutRevokesAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "bye@example.com", "secret1")

	res, err := f.svc.Login(ctx, "bye@example.com", "secret1", RequestMeta{})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := f.svc.Logout(ctx, res.RefreshToken, nil, RequestMeta{}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.svc.Refresh(ctx, res.RefreshToken, RequestMeta{}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("refresh after logout: got %v, want ErrInvalidToken", err)
	}

	// Logging out again, or with an unknown token, is not an error.
	if err := f.svc.Logout(ctx, res.RefreshToken, nil, RequestMeta{}); err != nil {
		t.Errorf("repeat logout: %v", err)
	}
	if err := f.svc.Logout(ctx, "", nil, RequestMeta{}); err != nil {
		t.Errorf("logout without token: %v", err)
	}
}

func TestAuditTrailRecordsAuthActions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedUser(t, "trail@example.com", "secret1")

	res, err := f.svc.Login(ctx, "trail@example.com", "secret1", RequestMeta{IP: "10.0.0.9"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := f.svc.Logout(ctx, res.RefreshToken, nil, RequestMeta{}); err != nil {
		t.Fatalf("logout: %v", err)
	}

	var actions []string
	for _, e := range f.audit.entries {
		actions = append(actions, e.Action)
	}
	want := map[string]bool{"auth_login": false, "auth_logout": false}
	for _, a := range actions {
		if _, ok := want[a]; ok {
			want[a] = true
		}
	}
	for action, seen := range want {
		if !seen {
			t.Errorf("audit trail missing %s (got %v)", action, actions)
		}
	}
}
