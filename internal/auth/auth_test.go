package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret")

	token, expiresAt, err := m.Issue("user-42", "admin", PurposeSession, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiry, got %v", expiresAt)
	}

	claims, err := m.Parse(token, PurposeSession)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "user-42" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestParseExpired(t *testing.T) {
	m := NewTokenManager("test-secret")
	m.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }

	token, _, err := m.Issue("user-42", "user", PurposeSession, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	m.now = time.Now
	if _, err := m.Parse(token, PurposeSession); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestParseRejectsWrongSecretAndPurpose(t *testing.T) {
	issuer := NewTokenManager("secret-a")
	token, _, err := issuer.Issue("user-1", "user", PurposePasswordReset, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewTokenManager("secret-b").Parse(token, PurposePasswordReset); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
	if _, err := issuer.Parse(token, PurposeSession); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("reset token must not authenticate a session, got %v", err)
	}
	if _, err := issuer.Parse("not.a.token", PurposeSession); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := VerifyPassword(hash, "Sup3r$ecret"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch error")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("expected error for empty password")
	}
}
