package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
)

// Placeholders used when a review's author cannot be loaded.
const (
	AnonymousUser = "Anonymous"
	NoEmail       = "N/A"
)

// ReviewInput is the review form.
type ReviewInput struct {
	BookingID model.BookingID `json:"booking_id"`
	Rating    int             `json:"rating"`
	Feedback  string          `json:"feedback"`
}

type ReviewService struct {
	gw       *Gateway
	reviews  ReviewStore
	bookings BookingStore
	users    UserStore
	events   emitter
}

func NewReviewService(gw *Gateway, reviews ReviewStore, bookings BookingStore, users UserStore, pub Publisher, log *zap.Logger) *ReviewService {
	return &ReviewService{gw: gw, reviews: reviews, bookings: bookings, users: users, events: emitter{pub: pub, log: log}}
}

// Create records a review of one of the caller's purchased bookings.  A
// booking can be reviewed once; new reviews await approval.
func (s *ReviewService) Create(ctx context.Context, caller model.UserID, in ReviewInput) (model.ReviewID, error) {
	u, err := s.gw.RequireUser(ctx, caller)
	if err != nil {
		return 0, err
	}
	b, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return 0, storeErr(err, "Booking not found")
	}
	if b.UserID != u.ID {
		return 0, fail(ErrNotAuthorized, "Unauthorized")
	}
	if b.Status != model.BookingPurchasedService {
		return 0, fail(ErrValidation, "Can only review purchased services")
	}
	mine, err := s.reviews.ListByUser(ctx, u.ID)
	if err != nil {
		return 0, err
	}
	for _, r := range mine {
		if r.BookingID == b.ID {
			return 0, fail(ErrConflict, "Already reviewed this booking")
		}
	}
	rv := &model.Review{
		UserID:    u.ID,
		BookingID: b.ID,
		Rating:    in.Rating,
		Feedback:  strings.TrimSpace(in.Feedback),
	}
	// A concurrent create for the same booking is rejected by the store.
	if err := s.reviews.Create(ctx, rv); err != nil {
		return 0, storeErr(err, "Booking not found")
	}
	s.events.emit(ctx, queue.NewEvent(queue.ReviewCreated, uint64(rv.ID), uint64(u.ID), nil))
	return rv.ID, nil
}

func (s *ReviewService) authors(ctx context.Context, rs []model.Review) (map[model.UserID]*model.User, error) {
	ids := make([]model.UserID, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.UserID)
	}
	return s.users.GetMany(ctx, ids)
}

// ListApproved is the public testimonials feed.
func (s *ReviewService) ListApproved(ctx context.Context) ([]model.PublicReview, error) {
	approved := true
	rs, err := s.reviews.List(ctx, &approved)
	if err != nil {
		return nil, err
	}
	authors, err := s.authors(ctx, rs)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicReview, 0, len(rs))
	for _, r := range rs {
		pr := model.PublicReview{Review: r, UserName: AnonymousUser}
		if a := authors[r.UserID]; a != nil {
			if a.Name != "" {
				pr.UserName = a.Name
			}
			pr.UserImage = a.Image
		}
		out = append(out, pr)
	}
	return out, nil
}

// ListAll is the moderation view, optionally filtered by approval.
func (s *ReviewService) ListAll(ctx context.Context, caller model.UserID, approved *bool) (Guarded[[]model.AdminReview], error) {
	_, denied, err := s.gw.Inspect(ctx, caller)
	if err != nil || denied != Allowed {
		return deny[[]model.AdminReview](denied), err
	}
	rs, err := s.reviews.List(ctx, approved)
	if err != nil {
		return Guarded[[]model.AdminReview]{}, err
	}
	authors, err := s.authors(ctx, rs)
	if err != nil {
		return Guarded[[]model.AdminReview]{}, err
	}
	out := make([]model.AdminReview, 0, len(rs))
	for _, r := range rs {
		ar := model.AdminReview{Review: r, UserName: AnonymousUser, UserEmail: NoEmail}
		if a := authors[r.UserID]; a != nil {
			if a.Name != "" {
				ar.UserName = a.Name
			}
			if a.Email != "" {
				ar.UserEmail = a.Email
			}
		}
		out = append(out, ar)
	}
	return allow(out), nil
}

// SetApproval publishes or hides a review.
func (s *ReviewService) SetApproval(ctx context.Context, caller model.UserID, id model.ReviewID, approved bool) error {
	admin, err := s.gw.RequireAdmin(ctx, caller)
	if err != nil {
		return err
	}
	if err := s.reviews.SetApproved(ctx, id, approved); err != nil {
		return storeErr(err, "Review not found")
	}
	state := "hidden"
	if approved {
		state = "approved"
	}
	s.events.emit(ctx, queue.NewEvent(queue.ReviewApprovalChanged, uint64(id), uint64(admin.ID),
		map[string]string{"state": state}))
	return nil
}

// EligibleBookings lists the caller's purchased bookings that have no
// review yet.
func (s *ReviewService) EligibleBookings(ctx context.Context, caller model.UserID) (Guarded[[]model.Booking], error) {
	u, err := s.gw.CurrentUser(ctx, caller)
	if err != nil {
		return Guarded[[]model.Booking]{}, err
	}
	if u == nil {
		return deny[[]model.Booking](NotAuthenticated), nil
	}
	bs, err := s.bookings.ListByUser(ctx, u.ID)
	if err != nil {
		return Guarded[[]model.Booking]{}, err
	}
	mine, err := s.reviews.ListByUser(ctx, u.ID)
	if err != nil {
		return Guarded[[]model.Booking]{}, err
	}
	reviewed := make(map[model.BookingID]bool, len(mine))
	for _, r := range mine {
		reviewed[r.BookingID] = true
	}
	out := []model.Booking{}
	for _, b := range bs {
		if b.Status == model.BookingPurchasedService && !reviewed[b.ID] {
			out = append(out, b)
		}
	}
	return allow(out), nil
}
