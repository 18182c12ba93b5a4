package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sanadhub/donations-backend/internal/model"
)

// Token type tags carried in the token_type claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims is the decoded payload of both token kinds. Identity fields are
// explicit struct members rather than a free-form map so a missing field is
// a compile error, not a runtime surprise.
type Claims struct {
	UserID            uint64 `json:"id"`
	Role              string `json:"role"`
	Email             string `json:"email"`
	PreferredLanguage string `json:"preferredLanguage"`
	TokenType         string `json:"token_type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 JWTs with a single shared secret. The
// secret is injected at construction; the codec keeps no other state.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessTTL returns the lifetime encoded into access tokens.
func (c *Codec) AccessTTL() time.Duration { return c.accessTTL }

// RefreshTTL returns the lifetime encoded into refresh tokens; the stored
// session record expires at the same instant.
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssueAccess signs a short-lived access token for u.
func (c *Codec) IssueAccess(u model.User) (string, error) {
	return c.issue(u, TokenTypeAccess, c.accessTTL)
}

// IssueRefresh signs a long-lived refresh token for u. Only the SHA-256
// hash of the returned string may be persisted.
func (c *Codec) IssueRefresh(u model.User) (string, error) {
	return c.issue(u, TokenTypeRefresh, c.refreshTTL)
}

func (c *Codec) issue(u model.User, kind string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID:            u.ID,
		Role:              u.Role,
		Email:             u.Email,
		PreferredLanguage: u.PreferredLanguage,
		TokenType:         kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(u.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token. It fails with ErrInvalidToken when
// the signature does not match, the token is malformed, or it has expired.
func (c *Codec) Verify(raw string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashToken returns the SHA-256 hex digest of a raw token. Refresh sessions
// are indexed by this digest so a database read never yields a usable token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
