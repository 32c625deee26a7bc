package utils

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	now := time.Now()
	tok, err := NewAccessToken("secret", 42, "admin", 15, now)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if got := tok.Exp.Sub(now.UTC()); got != 15*time.Minute {
		t.Fatalf("exp offset = %v", got)
	}
	claims, err := ParseAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	now := time.Now()
	tok, _ := NewAccessToken("secret", 1, "user", 15, now)
	if _, err := ParseAccessToken("other", tok.Token); err == nil {
		t.Fatal("expected signature error")
	}
	old, _ := NewAccessToken("secret", 1, "user", 15, now.Add(-time.Hour))
	if _, err := ParseAccessToken("secret", old.Token); err == nil {
		t.Fatal("expected expiry error")
	}
	if _, err := ParseAccessToken("secret", "not-a-jwt"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRefreshAndResetTokens(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rt, err := NewRefreshToken(7, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(rt.Raw) != 96 || !rt.Exp.Equal(now.Add(7*24*time.Hour)) {
		t.Fatalf("refresh token = %+v", rt)
	}
	a, _ := NewResetToken()
	b, _ := NewResetToken()
	if len(a) != 64 || a == b {
		t.Fatalf("reset tokens %q %q", a, b)
	}
	if HashToken(a) == a || HashToken(a) != HashToken(a) || len(HashToken(a)) != 64 {
		t.Fatal("hash must be a stable 64-char digest")
	}
}

func TestPasswordHashing(t *testing.T) {
	h, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword(h, "correct horse") {
		t.Fatal("expected match")
	}
	if VerifyPassword(h, "wrong") || VerifyPassword("", "") {
		t.Fatal("expected mismatch")
	}
}
