package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
	"github.com/divyansh01440/nirvana-agency/internal/repository"
)

// Denial says why a guarded read returned nothing.
type Denial string

const (
	Allowed          Denial = ""
	NotAuthenticated Denial = "not_authenticated"
	NotAuthorized    Denial = "not_authorized"
)

// Guarded is the result of a read that requires a role.  When Denied is
// set, Value is the zero value and must be treated as "not visible"
// rather than "no data".
type Guarded[T any] struct {
	Value  T
	Denied Denial
}

// OK reports whether the caller was allowed to see Value.
func (g Guarded[T]) OK() bool { return g.Denied == Allowed }

func allow[T any](v T) Guarded[T]      { return Guarded[T]{Value: v} }
func deny[T any](d Denial) Guarded[T] { return Guarded[T]{Denied: d} }

// Gateway resolves the calling principal.  Callers pass the user id taken
// from a verified access token, 0 for anonymous requests.  The role is
// always re-read from the directory so a demoted admin loses access
// before their token expires.
type Gateway struct {
	users UserStore
}

func NewGateway(users UserStore) *Gateway { return &Gateway{users: users} }

// CurrentUser returns the caller's record, or nil for an anonymous caller
// or a token whose user no longer exists.
func (g *Gateway) CurrentUser(ctx context.Context, caller model.UserID) (*model.User, error) {
	if caller == 0 {
		return nil, nil
	}
	u, err := g.users.GetByID(ctx, caller)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// RequireUser fails with ErrNotAuthenticated when there is no caller.
func (g *Gateway) RequireUser(ctx context.Context, caller model.UserID) (*model.User, error) {
	u, err := g.CurrentUser(ctx, caller)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fail(ErrNotAuthenticated, "Not authenticated")
	}
	return u, nil
}

// RequireAdmin additionally fails with ErrNotAuthorized for non-admins.
func (g *Gateway) RequireAdmin(ctx context.Context, caller model.UserID) (*model.User, error) {
	u, err := g.RequireUser(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !u.Role.IsAdmin() {
		return nil, fail(ErrNotAuthorized, "Unauthorized")
	}
	return u, nil
}

// Inspect is the read-path guard: it reports why an admin read would be
// denied instead of failing.
func (g *Gateway) Inspect(ctx context.Context, caller model.UserID) (*model.User, Denial, error) {
	u, err := g.CurrentUser(ctx, caller)
	switch {
	case err != nil:
		return nil, Allowed, err
	case u == nil:
		return nil, NotAuthenticated, nil
	case !u.Role.IsAdmin():
		return u, NotAuthorized, nil
	}
	return u, Allowed, nil
}

// emitter publishes events on behalf of a service.  Failures are logged
// and never fail the request that caused them.
type emitter struct {
	pub Publisher
	log *zap.Logger
}

func (e emitter) emit(ctx context.Context, ev queue.Event) {
	if e.pub == nil {
		return
	}
	if err := e.pub.Publish(ctx, ev); err != nil && e.log != nil {
		e.log.Warn("event publish failed", zap.String("event_type", ev.Type), zap.Error(err))
	}
}
