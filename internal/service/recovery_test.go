package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/divyansh01440/nirvana-agency/internal/utils"
)

func TestRequestPasswordReset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "Fluffy")
	f.register(t, "b@x.com", "bob", "")

	res, err := f.recovery.RequestPasswordReset(ctx, "A@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if res.Hint != "Fluffy" || res.Email != "a@x.com" {
		t.Fatalf("result = %+v", res)
	}
	res, err = f.recovery.RequestPasswordReset(ctx, "b@x.com")
	if err != nil || res.Hint != NoHint {
		t.Fatalf("no hint result = %+v, %v", res, err)
	}
	_, err = f.recovery.RequestPasswordReset(ctx, "nobody@x.com")
	wantKind(t, err, ErrNotFound)
}

func TestResetTokenExpiresAfterOneHour(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "Fluffy")

	tok, err := f.recovery.GeneratePasswordResetToken(ctx, "a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	f.clock.Advance(time.Hour)
	if _, err := f.recovery.VerifyResetToken(ctx, tok.Token, "Fluffy"); err != nil {
		t.Fatalf("at expiry: %v", err)
	}
	f.clock.Advance(time.Millisecond)
	_, err = f.recovery.VerifyResetToken(ctx, tok.Token, "Fluffy")
	wantKind(t, err, ErrExpired)
	_, err = f.recovery.VerifyResetToken(ctx, tok.Token, "wrong")
	wantKind(t, err, ErrExpired)
}

func TestVerifyResetTokenHint(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "Fluffy")
	tok, err := f.recovery.GeneratePasswordResetToken(ctx, "a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	if tok.Hint != "Fluffy" || len(tok.Token) != 64 {
		t.Fatalf("token = %+v", tok)
	}

	v, err := f.recovery.VerifyResetToken(ctx, tok.Token, "fluffy")
	if err != nil || !v.Valid || v.Email != "a@x.com" {
		t.Fatalf("verify = %+v, %v", v, err)
	}
	_, err = f.recovery.VerifyResetToken(ctx, tok.Token, "Rex")
	wantKind(t, err, ErrMismatch)
	_, err = f.recovery.VerifyResetToken(ctx, "deadbeef", "Fluffy")
	wantKind(t, err, ErrNotFound)
}

func TestVerifyWithoutStoredHintMismatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "")
	tok, err := f.recovery.GeneratePasswordResetToken(ctx, "a@x.com")
	if err != nil {
		t.Fatal(err)
	}
	_, err = f.recovery.VerifyResetToken(ctx, tok.Token, "")
	wantKind(t, err, ErrMismatch)
}

func TestNewTokenReplacesOld(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "a@x.com", "alice", "Fluffy")
	first, _ := f.recovery.GeneratePasswordResetToken(ctx, "a@x.com")
	second, _ := f.recovery.GeneratePasswordResetToken(ctx, "a@x.com")

	_, err := f.recovery.VerifyResetToken(ctx, first.Token, "Fluffy")
	wantKind(t, err, ErrNotFound)
	if _, err := f.recovery.VerifyResetToken(ctx, second.Token, "Fluffy"); err != nil {
		t.Fatal(err)
	}
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := f.register(t, "a@x.com", "alice", "Fluffy")
	tok, _ := f.recovery.GeneratePasswordResetToken(ctx, "a@x.com")

	err := f.recovery.ResetPassword(ctx, ResetInput{Token: tok.Token, Hint: "fluffy", NewPassword: "short", ConfirmPassword: "short"})
	wantKind(t, err, ErrValidation)
	long := strings.Repeat("x", utils.MaxPasswordBytes+1)
	err = f.recovery.ResetPassword(ctx, ResetInput{Token: tok.Token, Hint: "fluffy", NewPassword: long, ConfirmPassword: long})
	wantKind(t, err, ErrValidation)

	in := ResetInput{Token: tok.Token, Hint: "fluffy", NewPassword: "new-password", ConfirmPassword: "new-password"}
	if err := f.recovery.ResetPassword(ctx, in); err != nil {
		t.Fatalf("reset: %v", err)
	}
	wantKind(t, f.recovery.ResetPassword(ctx, in), ErrNotFound)

	if _, err := f.auth.Login(ctx, "a@x.com", "new-password"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	_, err = f.auth.Login(ctx, "a@x.com", "password1")
	wantKind(t, err, ErrNotAuthenticated)
	_, err = f.auth.Refresh(ctx, s.Refresh.Raw)
	wantKind(t, err, ErrNotAuthenticated)
}
