package service

import (
	"context"
	"time"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
)

// UserStore is the user directory.  Implemented by repository.UserRepo
// and memstore.UserStore.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id model.UserID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*model.User, error)
	GetMany(ctx context.Context, ids []model.UserID) (map[model.UserID]*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id model.UserID, name, username, phone, hint string) error
	SetRole(ctx context.Context, id model.UserID, role model.Role) error
	SetResetToken(ctx context.Context, id model.UserID, hash string, expiryMillis int64) error
	ResetPassword(ctx context.Context, id model.UserID, passwordHash string) error
	Delete(ctx context.Context, id model.UserID) error
}

// TokenStore persists hashed refresh tokens.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID model.UserID, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string, now time.Time) (model.UserID, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID model.UserID) error
	PurgeStale(ctx context.Context, now time.Time) (int64, error)
}

type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id model.BookingID) (*model.Booking, error)
	ListByUser(ctx context.Context, userID model.UserID) ([]model.Booking, error)
	List(ctx context.Context, status *model.BookingStatus) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id model.BookingID, status model.BookingStatus) error
}

type QueryStore interface {
	Create(ctx context.Context, q *model.Query) error
	List(ctx context.Context, status *model.QueryStatus) ([]model.Query, error)
	UpdateStatus(ctx context.Context, id model.QueryID, status model.QueryStatus) error
}

type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	ListByUser(ctx context.Context, userID model.UserID) ([]model.Review, error)
	List(ctx context.Context, approved *bool) ([]model.Review, error)
	SetApproved(ctx context.Context, id model.ReviewID, approved bool) error
}

type ProjectStore interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id model.ProjectID) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id model.ProjectID) error
}

type AnalyticsStore interface {
	Increment(ctx context.Context, date string, visitors, pageViews int64) error
	ListSince(ctx context.Context, from string) ([]model.DailyTraffic, error)
}

// Publisher receives domain events.  queue.Publisher sends them to
// RabbitMQ; queue.Discard drops them.
type Publisher interface {
	Publish(ctx context.Context, ev queue.Event) error
}
