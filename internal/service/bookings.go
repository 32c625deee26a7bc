package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
)

// UnknownUser is shown for bookings whose owner cannot be loaded.
const UnknownUser = "Unknown"

// BookingInput is the call-booking form.
type BookingInput struct {
	CompanyName              string `json:"company_name"`
	Email                    string `json:"email"`
	Service                  string `json:"service"`
	ContactNumber            string `json:"contact_number"`
	AlternativeContactNumber string `json:"alternative_contact_number"`
	State                    string `json:"state"`
	City                     string `json:"city"`
	Address                  string `json:"address"`
	Pincode                  string `json:"pincode"`
}

type BookingService struct {
	gw       *Gateway
	bookings BookingStore
	users    UserStore
	events   emitter
}

func NewBookingService(gw *Gateway, bookings BookingStore, users UserStore, pub Publisher, log *zap.Logger) *BookingService {
	return &BookingService{gw: gw, bookings: bookings, users: users, events: emitter{pub: pub, log: log}}
}

// required returns a Validation error naming the first empty field.
func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return fail(ErrValidation, f[0]+" is required")
		}
	}
	return nil
}

// Create books a call for the caller.  New bookings start Pending.
func (s *BookingService) Create(ctx context.Context, caller model.UserID, in BookingInput) (model.BookingID, error) {
	u, err := s.gw.RequireUser(ctx, caller)
	if err != nil {
		return 0, err
	}
	svc, err := model.ParseService(in.Service)
	if err != nil {
		return 0, fail(ErrValidation, "Invalid service")
	}
	if err := required(
		[2]string{"company_name", in.CompanyName},
		[2]string{"email", in.Email},
		[2]string{"contact_number", in.ContactNumber},
		[2]string{"state", in.State},
		[2]string{"city", in.City},
		[2]string{"address", in.Address},
		[2]string{"pincode", in.Pincode},
	); err != nil {
		return 0, err
	}
	b := &model.Booking{
		UserID:                   u.ID,
		CompanyName:              strings.TrimSpace(in.CompanyName),
		Email:                    normalizeEmail(in.Email),
		Service:                  svc,
		ContactNumber:            strings.TrimSpace(in.ContactNumber),
		AlternativeContactNumber: strings.TrimSpace(in.AlternativeContactNumber),
		State:                    strings.TrimSpace(in.State),
		City:                     strings.TrimSpace(in.City),
		Address:                  strings.TrimSpace(in.Address),
		Pincode:                  strings.TrimSpace(in.Pincode),
		Status:                   model.BookingPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return 0, err
	}
	s.events.emit(ctx, queue.NewEvent(queue.BookingCreated, uint64(b.ID), uint64(u.ID),
		map[string]string{"service": string(b.Service), "company_name": b.CompanyName}))
	return b.ID, nil
}

// ListMine returns the caller's own bookings.
func (s *BookingService) ListMine(ctx context.Context, caller model.UserID) (Guarded[[]model.Booking], error) {
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
	if bs == nil {
		bs = []model.Booking{}
	}
	return allow(bs), nil
}

// ListAll returns every booking, optionally filtered by status, with the
// owner's name attached.  Non-admins get an empty, denied result.
func (s *BookingService) ListAll(ctx context.Context, caller model.UserID, status string) (Guarded[[]model.BookingWithUser], error) {
	_, denied, err := s.gw.Inspect(ctx, caller)
	if err != nil || denied != Allowed {
		return deny[[]model.BookingWithUser](denied), err
	}
	var filter *model.BookingStatus
	if status != "" {
		st, err := model.ParseBookingStatus(status)
		if err != nil {
			return Guarded[[]model.BookingWithUser]{}, fail(ErrValidation, "Invalid status")
		}
		filter = &st
	}
	bs, err := s.bookings.List(ctx, filter)
	if err != nil {
		return Guarded[[]model.BookingWithUser]{}, err
	}
	ids := make([]model.UserID, 0, len(bs))
	for _, b := range bs {
		ids = append(ids, b.UserID)
	}
	owners, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return Guarded[[]model.BookingWithUser]{}, err
	}
	out := make([]model.BookingWithUser, 0, len(bs))
	for _, b := range bs {
		name := UnknownUser
		if o := owners[b.UserID]; o != nil && o.Name != "" {
			name = o.Name
		}
		out = append(out, model.BookingWithUser{Booking: b, UserName: name})
	}
	return allow(out), nil
}

// UpdateStatus moves a booking through the workflow.  Setting it to
// Purchased Service makes it reviewable by its owner.
func (s *BookingService) UpdateStatus(ctx context.Context, caller model.UserID, id model.BookingID, status string) error {
	admin, err := s.gw.RequireAdmin(ctx, caller)
	if err != nil {
		return err
	}
	st, err := model.ParseBookingStatus(status)
	if err != nil {
		return fail(ErrValidation, "Invalid status")
	}
	if err := s.bookings.UpdateStatus(ctx, id, st); err != nil {
		return storeErr(err, "Booking not found")
	}
	s.events.emit(ctx, queue.NewEvent(queue.BookingStatusChanged, uint64(id), uint64(admin.ID),
		map[string]string{"status": string(st)}))
	return nil
}

// Stats counts bookings per status.
func (s *BookingService) Stats(ctx context.Context, caller model.UserID) (Guarded[*model.BookingStats], error) {
	_, denied, err := s.gw.Inspect(ctx, caller)
	if err != nil || denied != Allowed {
		return deny[*model.BookingStats](denied), err
	}
	bs, err := s.bookings.List(ctx, nil)
	if err != nil {
		return Guarded[*model.BookingStats]{}, err
	}
	st := model.TallyBookings(bs)
	return allow(&st), nil
}
