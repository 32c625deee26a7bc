package service

import (
	"context"
	"testing"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
)

func TestCreateBookingRequiresUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.bookings.Create(context.Background(), 0, BookingInput{Service: string(model.ServiceSEO)})
	wantKind(t, err, ErrNotAuthenticated)
}

func TestCreateBookingValidates(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "a@x.com")
	ctx := context.Background()
	_, err := f.bookings.Create(ctx, owner, BookingInput{CompanyName: "Acme", Service: "Gardening"})
	wantKind(t, err, ErrValidation)
	_, err = f.bookings.Create(ctx, owner, BookingInput{Service: string(model.ServiceSEO)})
	wantKind(t, err, ErrValidation)
}

func TestBookingLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	owner := f.register(t, "a@x.com", "alice", "").User.ID
	id := f.booking(t, owner)

	mine, err := f.bookings.ListMine(ctx, owner)
	if err != nil || !mine.OK() || len(mine.Value) != 1 || mine.Value[0].Status != model.BookingPending {
		t.Fatalf("mine = %+v, %v", mine, err)
	}

	if err := f.bookings.UpdateStatus(ctx, admin, id, "Attended"); err != nil {
		t.Fatalf("update: %v", err)
	}
	wantKind(t, f.bookings.UpdateStatus(ctx, admin, id, "attended"), ErrValidation)
	wantKind(t, f.bookings.UpdateStatus(ctx, admin, 999, "Attended"), ErrNotFound)

	all, err := f.bookings.ListAll(ctx, admin, "Attended")
	if err != nil || !all.OK() || len(all.Value) != 1 {
		t.Fatalf("all = %+v, %v", all, err)
	}
	if all.Value[0].UserName != "alice" {
		t.Fatalf("user name = %q", all.Value[0].UserName)
	}
	none, err := f.bookings.ListAll(ctx, admin, "Pending")
	if err != nil || len(none.Value) != 0 {
		t.Fatalf("pending = %+v, %v", none, err)
	}

	stats, err := f.bookings.Stats(ctx, admin)
	if err != nil || stats.Value.Total != 1 || stats.Value.Attended != 1 {
		t.Fatalf("stats = %+v, %v", stats.Value, err)
	}

	got := f.pub.types()
	if got[len(got)-2] != queue.BookingCreated || got[len(got)-1] != queue.BookingStatusChanged {
		t.Fatalf("events = %v", got)
	}
}

func TestBookingOwnerNameFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	f.booking(t, f.user(t, "noname@x.com"))

	all, err := f.bookings.ListAll(ctx, admin, "")
	if err != nil || len(all.Value) != 1 || all.Value[0].UserName != UnknownUser {
		t.Fatalf("all = %+v, %v", all, err)
	}
}

func TestBookingAdminReadsDegrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "a@x.com")
	f.booking(t, user)

	for _, caller := range []model.UserID{0, user} {
		all, err := f.bookings.ListAll(ctx, caller, "")
		if err != nil || all.OK() || len(all.Value) != 0 {
			t.Fatalf("caller %d: all = %+v, %v", caller, all, err)
		}
		stats, err := f.bookings.Stats(ctx, caller)
		if err != nil || stats.OK() || stats.Value != nil {
			t.Fatalf("caller %d: stats = %+v, %v", caller, stats, err)
		}
	}
	all, _ := f.bookings.ListAll(ctx, 0, "")
	if all.Denied != NotAuthenticated {
		t.Fatalf("anonymous denial = %q", all.Denied)
	}
	all, _ = f.bookings.ListAll(ctx, user, "")
	if all.Denied != NotAuthorized {
		t.Fatalf("user denial = %q", all.Denied)
	}
	mine, _ := f.bookings.ListMine(ctx, 0)
	if mine.Denied != NotAuthenticated {
		t.Fatalf("mine denial = %q", mine.Denied)
	}
}

func TestBookingUpdateStatusNeedsAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.user(t, "a@x.com")
	id := f.booking(t, user)
	wantKind(t, f.bookings.UpdateStatus(ctx, user, id, "Attended"), ErrNotAuthorized)
	wantKind(t, f.bookings.UpdateStatus(ctx, 0, id, "Attended"), ErrNotAuthenticated)
}
