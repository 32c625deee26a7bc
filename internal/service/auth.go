package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
	"github.com/divyansh01440/nirvana-agency/internal/repository"
	"github.com/divyansh01440/nirvana-agency/internal/utils"
)

// AuthConfig carries the token and hashing settings.
type AuthConfig struct {
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// Session is what a successful register, login or refresh hands back.
type Session struct {
	User    *model.User        `json:"user"`
	Access  utils.AccessToken  `json:"access"`
	Refresh utils.RefreshToken `json:"refresh"`
}

// RegisterInput is the sign-up form.
type RegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	Phone           string `json:"phone"`
	PasswordHint    string `json:"password_hint"`
}

// ProfileInput completes or edits a profile.  Nil fields keep their
// current value.
type ProfileInput struct {
	Name         *string `json:"name"`
	Username     *string `json:"username"`
	Phone        *string `json:"phone"`
	PasswordHint *string `json:"password_hint"`
}

// AuthService handles credentials and sessions.
type AuthService struct {
	cfg    AuthConfig
	users  UserStore
	tokens TokenStore
	gw     *Gateway
	clock  Clock
	events emitter
	log    *zap.Logger
}

func NewAuthService(cfg AuthConfig, users UserStore, tokens TokenStore, gw *Gateway, clock Clock, pub Publisher, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{cfg: cfg, users: users, tokens: tokens, gw: gw, clock: clock,
		events: emitter{pub: pub, log: log}, log: log}
}

// validatePassword enforces the length and confirmation rules shared by
// sign-up and reset.
func validatePassword(pw, confirm string) error {
	if len(pw) < utils.MinPasswordLength {
		return fail(ErrValidation, "Password must be at least 8 characters")
	}
	if len(pw) > utils.MaxPasswordBytes {
		return fail(ErrValidation, "Password must be at most 72 bytes")
	}
	if pw != confirm {
		return fail(ErrValidation, "Passwords do not match")
	}
	return nil
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Register creates a user with the default role and opens a session.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" {
		return nil, fail(ErrValidation, "Email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fail(ErrValidation, "Invalid email address")
	}
	if err := validatePassword(in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, fail(ErrConflict, "User already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if username != "" {
		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			return nil, fail(ErrConflict, "Username already taken")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Username:     username,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		PasswordHint: strings.TrimSpace(in.PasswordHint),
		Role:         model.DefaultRole,
	}
	// The store's unique indexes settle races between the checks above
	// and this insert.
	if err := s.users.Create(ctx, u); err != nil {
		return nil, storeErr(err, "User not found")
	}
	s.events.emit(ctx, queue.NewEvent(queue.UserRegistered, uint64(u.ID), uint64(u.ID), nil))
	return s.issue(ctx, u)
}

// Login accepts either an email address or a username as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identifier = strings.TrimSpace(identifier)
	var (
		u   *model.User
		err error
	)
	if strings.Contains(identifier, "@") {
		u, err = s.users.GetByEmail(ctx, identifier)
	} else {
		u, err = s.users.GetByUsername(ctx, identifier)
	}
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !utils.VerifyPassword(u.PasswordHash, password)) {
		return nil, fail(ErrNotAuthenticated, "Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u)
}

func (s *AuthService) issue(ctx context.Context, u *model.User) (*Session, error) {
	now := s.clock.Now()
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, uint64(u.ID), string(u.Role), s.cfg.AccessTTLMin, now)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshTTLDays, now)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.StoreRefresh(ctx, u.ID, utils.HashToken(refresh.Raw), refresh.Exp); err != nil {
		return nil, err
	}
	return &Session{User: u, Access: access, Refresh: refresh}, nil
}

// sessionOwner resolves a raw refresh token to its still-existing user.
func (s *AuthService) sessionOwner(ctx context.Context, raw string) (*model.User, string, error) {
	if raw == "" {
		return nil, "", fail(ErrValidation, "refresh_token is required")
	}
	hash := utils.HashToken(raw)
	id, err := s.tokens.ValidateRefresh(ctx, hash, s.clock.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", fail(ErrNotAuthenticated, "Invalid or expired refresh token")
	}
	if err != nil {
		return nil, "", err
	}
	u, err := s.gw.RequireUser(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return u, hash, nil
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, raw string) (*Session, error) {
	u, hash, err := s.sessionOwner(ctx, raw)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.RevokeByHash(ctx, hash); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.issue(ctx, u)
}

// RefreshAccess issues a new access token and leaves the refresh token
// untouched.
func (s *AuthService) RefreshAccess(ctx context.Context, raw string) (utils.AccessToken, error) {
	u, _, err := s.sessionOwner(ctx, raw)
	if err != nil {
		return utils.AccessToken{}, err
	}
	return utils.NewAccessToken(s.cfg.JWTSecret, uint64(u.ID), string(u.Role), s.cfg.AccessTTLMin, s.clock.Now())
}

// Logout revokes one refresh token, or every session of the caller when
// all is set.  Revoking an unknown token is not an error.
func (s *AuthService) Logout(ctx context.Context, caller model.UserID, raw string, all bool) error {
	if all {
		u, err := s.gw.RequireUser(ctx, caller)
		if err != nil {
			return err
		}
		return s.tokens.RevokeAllForUser(ctx, u.ID)
	}
	if raw == "" {
		return fail(ErrValidation, "refresh_token is required")
	}
	if err := s.tokens.RevokeByHash(ctx, utils.HashToken(raw)); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// CurrentUser returns the caller's record or nil when anonymous.
func (s *AuthService) CurrentUser(ctx context.Context, caller model.UserID) (*model.User, error) {
	return s.gw.CurrentUser(ctx, caller)
}

// UpdateProfile edits the caller's own profile.  The role is never
// touched here.
func (s *AuthService) UpdateProfile(ctx context.Context, caller model.UserID, in ProfileInput) (*model.User, error) {
	u, err := s.gw.RequireUser(ctx, caller)
	if err != nil {
		return nil, err
	}
	name, username, phone, hint := u.Name, u.Username, u.Phone, u.PasswordHint
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
	}
	if in.Phone != nil {
		phone = strings.TrimSpace(*in.Phone)
	}
	if in.PasswordHint != nil {
		hint = strings.TrimSpace(*in.PasswordHint)
	}
	if username != "" && username != u.Username {
		other, err := s.users.GetByUsername(ctx, username)
		if err == nil && other.ID != u.ID {
			return nil, fail(ErrConflict, "Username already taken")
		}
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if err := s.users.UpdateProfile(ctx, u.ID, name, username, phone, hint); err != nil {
		return nil, storeErr(err, "User not found")
	}
	s.log.Debug("profile updated", zap.Uint64("user_id", uint64(u.ID)))
	return s.users.GetByID(ctx, u.ID)
}
