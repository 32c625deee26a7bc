package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

func purchased(t *testing.T, f *fixture, admin, owner model.UserID) model.BookingID {
	t.Helper()
	id := f.booking(t, owner)
	if err := f.bookings.UpdateStatus(context.Background(), admin, id, string(model.BookingPurchasedService)); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestReviewOnceAfterPurchase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	owner := f.register(t, "a@x.com", "alice", "").User.ID
	b := purchased(t, f, admin, owner)

	eligible, err := f.reviews.EligibleBookings(ctx, owner)
	if err != nil || len(eligible.Value) != 1 || eligible.Value[0].ID != b {
		t.Fatalf("eligible = %+v, %v", eligible, err)
	}

	id, err := f.reviews.Create(ctx, owner, ReviewInput{BookingID: b, Rating: 5, Feedback: "great"})
	if err != nil || id == 0 {
		t.Fatalf("create = %d, %v", id, err)
	}
	_, err = f.reviews.Create(ctx, owner, ReviewInput{BookingID: b, Rating: 5, Feedback: "great"})
	wantKind(t, err, ErrConflict)

	eligible, _ = f.reviews.EligibleBookings(ctx, owner)
	if len(eligible.Value) != 0 {
		t.Fatalf("reviewed booking still eligible: %+v", eligible.Value)
	}
}

func TestConcurrentReviewsForOneBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	owner := f.user(t, "a@x.com")
	b := purchased(t, f, admin, owner)

	const n = 50
	errs := make([]error, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.reviews.Create(ctx, owner, ReviewInput{BookingID: b, Rating: 5})
		}(i)
	}
	close(start)
	wg.Wait()

	created := 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case !errors.Is(err, ErrConflict):
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Fatalf("created %d reviews, want 1", created)
	}
	all, err := f.reviews.ListAll(ctx, admin, nil)
	if err != nil || len(all.Value) != 1 {
		t.Fatalf("stored reviews = %d, %v", len(all.Value), err)
	}
}

func TestReviewRequiresPurchasedStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	owner := f.user(t, "a@x.com")
	b := f.booking(t, owner)

	for _, st := range []model.BookingStatus{model.BookingPending, model.BookingAttended, model.BookingNotInterested} {
		if err := f.bookings.UpdateStatus(ctx, admin, b, string(st)); err != nil {
			t.Fatal(err)
		}
		_, err := f.reviews.Create(ctx, owner, ReviewInput{BookingID: b, Rating: 4})
		wantKind(t, err, ErrValidation)
	}
}

func TestReviewOwnershipAndExistence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	owner := f.user(t, "a@x.com")
	other := f.user(t, "b@x.com")
	b := purchased(t, f, admin, owner)

	_, err := f.reviews.Create(ctx, other, ReviewInput{BookingID: b, Rating: 1})
	wantKind(t, err, ErrNotAuthorized)
	_, err = f.reviews.Create(ctx, owner, ReviewInput{BookingID: 404, Rating: 1})
	wantKind(t, err, ErrNotFound)
	_, err = f.reviews.Create(ctx, 0, ReviewInput{BookingID: b, Rating: 1})
	wantKind(t, err, ErrNotAuthenticated)
}

func TestReviewModeration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	named := f.register(t, "a@x.com", "alice", "").User.ID
	anon := f.user(t, "b@x.com")

	r1, err := f.reviews.Create(ctx, named, ReviewInput{BookingID: purchased(t, f, admin, named), Rating: 5, Feedback: "great"})
	if err != nil {
		t.Fatal(err)
	}
	r2, err := f.reviews.Create(ctx, anon, ReviewInput{BookingID: purchased(t, f, admin, anon), Rating: 3})
	if err != nil {
		t.Fatal(err)
	}

	public, err := f.reviews.ListApproved(ctx)
	if err != nil || len(public) != 0 {
		t.Fatalf("unapproved reviews are public: %+v, %v", public, err)
	}

	wantKind(t, f.reviews.SetApproval(ctx, named, r1, true), ErrNotAuthorized)
	if err := f.reviews.SetApproval(ctx, admin, r1, true); err != nil {
		t.Fatal(err)
	}
	if err := f.reviews.SetApproval(ctx, admin, r2, true); err != nil {
		t.Fatal(err)
	}
	wantKind(t, f.reviews.SetApproval(ctx, admin, 999, true), ErrNotFound)

	public, _ = f.reviews.ListApproved(ctx)
	names := map[string]bool{}
	for _, p := range public {
		names[p.UserName] = true
	}
	if len(public) != 2 || !names["alice"] || !names[AnonymousUser] {
		t.Fatalf("public = %+v", public)
	}

	pending := false
	hidden, err := f.reviews.ListAll(ctx, admin, &pending)
	if err != nil || !hidden.OK() || len(hidden.Value) != 0 {
		t.Fatalf("pending = %+v, %v", hidden, err)
	}
	all, _ := f.reviews.ListAll(ctx, admin, nil)
	if len(all.Value) != 2 {
		t.Fatalf("all = %+v", all.Value)
	}

	denied, err := f.reviews.ListAll(ctx, named, nil)
	if err != nil || denied.Denied != NotAuthorized || len(denied.Value) != 0 {
		t.Fatalf("non-admin = %+v, %v", denied, err)
	}
}

func TestAdminReviewEmailFallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.admin(t)
	owner := f.user(t, "a@x.com")
	if _, err := f.reviews.Create(ctx, owner, ReviewInput{BookingID: purchased(t, f, admin, owner), Rating: 4}); err != nil {
		t.Fatal(err)
	}
	all, _ := f.reviews.ListAll(ctx, admin, nil)
	if all.Value[0].UserEmail != "a@x.com" || all.Value[0].UserName != AnonymousUser {
		t.Fatalf("review = %+v", all.Value[0])
	}
}
