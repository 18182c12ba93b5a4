package auth

import (
	"testing"
	"time"

	"github.com/sanadhub/donations-backend/internal/model"
)

func testUser() model.User {
	return model.User{
		ID:                7,
		Name:              "Test Donor",
		Email:             "donor@example.com",
		Role:              model.RoleDonor,
		Status:            model.StatusActive,
		PreferredLanguage: "ar",
	}
}

func TestIssueAndVerifyAccess(t *testing.T) {
	codec := NewCodec("test-secret", 15*time.Minute, 24*time.Hour)

	raw, err := codec.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := codec.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("user id = %d, want 7", claims.UserID)
	}
	if claims.Role != model.RoleDonor {
		t.Errorf("role = %q, want donor", claims.Role)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("token type = %q, want access", claims.TokenType)
	}
	if claims.Subject != "7" {
		t.Errorf("subject = %q, want 7", claims.Subject)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewCodec("secret-a", 15*time.Minute, 24*time.Hour)
	verifier := NewCodec("secret-b", 15*time.Minute, 24*time.Hour)

	raw, err := issuer.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	codec := NewCodec("test-secret", -time.Minute, 24*time.Hour)

	raw, err := codec.IssueAccess(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := codec.Verify(raw); err != ErrInvalidToken {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := NewCodec("test-secret", 15*time.Minute, 24*time.Hour)
	if _, err := codec.Verify("not.a.token"); err != ErrInvalidToken {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestRefreshTokenCarriesType(t *testing.T) {
	codec := NewCodec("test-secret", 15*time.Minute, 24*time.Hour)

	raw, err := codec.IssueRefresh(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := codec.Verify(raw)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Errorf("token type = %q, want refresh", claims.TokenType)
	}
}

func TestHashToken(t *testing.T) {
	h1 := HashToken("abc")
	h2 := HashToken("abc")
	h3 := HashToken("abd")
	if h1 != h2 {
		t.Error("same input produced different hashes")
	}
	if h1 == h3 {
		t.Error("different inputs produced the same hash")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
}
