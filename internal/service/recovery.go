package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
	"github.com/divyansh01440/nirvana-agency/internal/repository"
	"github.com/divyansh01440/nirvana-agency/internal/utils"
)

// ResetTokenTTL is how long a password reset token stays redeemable.
const ResetTokenTTL = time.Hour

// NoHint is reported when the user never set a password hint.
const NoHint = "No hint available"

type HintResult struct {
	Hint  string `json:"hint"`
	Email string `json:"email"`
}

type ResetTokenResult struct {
	Token string `json:"token"`
	Hint  string `json:"hint"`
}

type Verification struct {
	Valid bool   `json:"valid"`
	Email string `json:"email"`
}

// ResetInput completes a reset.
type ResetInput struct {
	Token           string `json:"token"`
	Hint            string `json:"hint"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// RecoveryService implements hint-based password recovery:
// request, then token issuance, then verification, then reset.
type RecoveryService struct {
	users      UserStore
	tokens     TokenStore
	clock      Clock
	bcryptCost int
	events     emitter
	log        *zap.Logger
}

func NewRecoveryService(users UserStore, tokens TokenStore, clock Clock, bcryptCost int, pub Publisher, log *zap.Logger) *RecoveryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RecoveryService{users: users, tokens: tokens, clock: clock, bcryptCost: bcryptCost,
		events: emitter{pub: pub, log: log}, log: log}
}

func (s *RecoveryService) userByEmail(ctx context.Context, email string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fail(ErrValidation, "Email is required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	return u, nil
}

func hintOf(u *model.User) string {
	if u.PasswordHint == "" {
		return NoHint
	}
	return u.PasswordHint
}

// RequestPasswordReset returns the user's own hint.
func (s *RecoveryService) RequestPasswordReset(ctx context.Context, email string) (HintResult, error) {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return HintResult{}, err
	}
	return HintResult{Hint: hintOf(u), Email: u.Email}, nil
}

// GeneratePasswordResetToken issues a token valid for one hour.  Only its
// hash is stored and any earlier token is replaced.
func (s *RecoveryService) GeneratePasswordResetToken(ctx context.Context, email string) (ResetTokenResult, error) {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return ResetTokenResult{}, err
	}
	token, err := utils.NewResetToken()
	if err != nil {
		return ResetTokenResult{}, err
	}
	expiry := s.clock.Now().Add(ResetTokenTTL).UnixMilli()
	if err := s.users.SetResetToken(ctx, u.ID, utils.HashToken(token), expiry); err != nil {
		return ResetTokenResult{}, storeErr(err, "User not found")
	}
	return ResetTokenResult{Token: token, Hint: hintOf(u)}, nil
}

// verify checks token existence, then expiry, then the hint answer.
func (s *RecoveryService) verify(ctx context.Context, token, answer string) (*model.User, error) {
	if token == "" {
		return nil, fail(ErrValidation, "Token is required")
	}
	u, err := s.users.GetByResetTokenHash(ctx, utils.HashToken(token))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Invalid reset token")
	}
	if err != nil {
		return nil, err
	}
	if u.ResetTokenExpiry == 0 || s.clock.Now().UnixMilli() > u.ResetTokenExpiry {
		return nil, fail(ErrExpired, "Reset token has expired")
	}
	if u.PasswordHint == "" || strings.ToLower(u.PasswordHint) != strings.ToLower(strings.TrimSpace(answer)) {
		return nil, fail(ErrMismatch, "Password hint does not match")
	}
	return u, nil
}

// VerifyResetToken confirms token and hint without consuming the token.
func (s *RecoveryService) VerifyResetToken(ctx context.Context, token, answer string) (Verification, error) {
	u, err := s.verify(ctx, token, answer)
	if err != nil {
		return Verification{}, err
	}
	return Verification{Valid: true, Email: u.Email}, nil
}

// ResetPassword redeems the token: it replaces the password, clears the
// token so it cannot be used again, and signs the user out everywhere.
func (s *RecoveryService) ResetPassword(ctx context.Context, in ResetInput) error {
	u, err := s.verify(ctx, in.Token, in.Hint)
	if err != nil {
		return err
	}
	if err := validatePassword(in.NewPassword, in.ConfirmPassword); err != nil {
		return err
	}
	hash, err := utils.HashPassword(in.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.ResetPassword(ctx, u.ID, hash); err != nil {
		return storeErr(err, "User not found")
	}
	if err := s.tokens.RevokeAllForUser(ctx, u.ID); err != nil {
		s.log.Warn("revoke sessions after reset failed", zap.Uint64("user_id", uint64(u.ID)), zap.Error(err))
	}
	s.events.emit(ctx, queue.NewEvent(queue.PasswordReset, uint64(u.ID), uint64(u.ID), nil))
	return nil
}
