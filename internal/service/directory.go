package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

// AdminCheck answers "is this email an admin?" for the operator CLI.
type AdminCheck struct {
	Email   string     `json:"email"`
	Role    model.Role `json:"role"`
	IsAdmin bool       `json:"is_admin"`
}

// DirectoryService manages users and roles.  The email-based methods are
// for trusted operators (the admin CLI) and perform no caller check; the
// caller-based methods are exposed over HTTP and require an admin.
type DirectoryService struct {
	gw    *Gateway
	users UserStore
	log   *zap.Logger
}

func NewDirectoryService(gw *Gateway, users UserStore, log *zap.Logger) *DirectoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirectoryService{gw: gw, users: users, log: log}
}

func (s *DirectoryService) byEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	return u, nil
}

// MakeAdmin grants the admin role to the user with email.
func (s *DirectoryService) MakeAdmin(ctx context.Context, email string) (*model.User, error) {
	u, err := s.byEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRole(ctx, u.ID, model.RoleAdmin); err != nil {
		return nil, storeErr(err, "User not found")
	}
	u.Role = model.RoleAdmin
	s.log.Info("role granted", zap.String("email", u.Email), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *DirectoryService) CheckAdmin(ctx context.Context, email string) (AdminCheck, error) {
	u, err := s.byEmail(ctx, email)
	if err != nil {
		return AdminCheck{}, err
	}
	return AdminCheck{Email: u.Email, Role: u.Role, IsAdmin: u.Role.IsAdmin()}, nil
}

// DeleteUserByEmail removes a user and everything they own.
func (s *DirectoryService) DeleteUserByEmail(ctx context.Context, email string) error {
	u, err := s.byEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return storeErr(err, "User not found")
	}
	s.log.Info("user deleted", zap.String("email", u.Email))
	return nil
}

// ListUsers is the admin user table.
func (s *DirectoryService) ListUsers(ctx context.Context, caller model.UserID) (Guarded[[]model.User], error) {
	_, denied, err := s.gw.Inspect(ctx, caller)
	if err != nil || denied != Allowed {
		return deny[[]model.User](denied), err
	}
	us, err := s.users.List(ctx)
	if err != nil {
		return Guarded[[]model.User]{}, err
	}
	if us == nil {
		us = []model.User{}
	}
	return allow(us), nil
}

// SetRole changes another user's role.  Admins cannot change their own
// role, which keeps at least the acting admin in place.
func (s *DirectoryService) SetRole(ctx context.Context, caller, target model.UserID, role string) error {
	admin, err := s.gw.RequireAdmin(ctx, caller)
	if err != nil {
		return err
	}
	r, err := model.ParseRole(role)
	if err != nil {
		return fail(ErrValidation, "Invalid role")
	}
	if target == admin.ID {
		return fail(ErrValidation, "Cannot change your own role")
	}
	if err := s.users.SetRole(ctx, target, r); err != nil {
		return storeErr(err, "User not found")
	}
	s.log.Info("role changed", zap.Uint64("user_id", uint64(target)), zap.String("role", string(r)),
		zap.Uint64("by", uint64(admin.ID)))
	return nil
}

// DeleteUser removes another user.
func (s *DirectoryService) DeleteUser(ctx context.Context, caller, target model.UserID) error {
	admin, err := s.gw.RequireAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if target == admin.ID {
		return fail(ErrValidation, "Cannot delete your own account")
	}
	if err := s.users.Delete(ctx, target); err != nil {
		return storeErr(err, "User not found")
	}
	s.log.Info("user deleted", zap.Uint64("user_id", uint64(target)), zap.Uint64("by", uint64(admin.ID)))
	return nil
}
