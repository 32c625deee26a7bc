package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/repository"
)

func TestPurgeStaleTokens(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	tokens := New().Tokens()

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(tokens.StoreRefresh(ctx, 1, "live", now.Add(time.Hour)))
	must(tokens.StoreRefresh(ctx, 1, "expired", now.Add(-time.Minute)))
	must(tokens.StoreRefresh(ctx, 2, "revoked", now.Add(time.Hour)))
	must(tokens.RevokeByHash(ctx, "revoked"))

	n, err := tokens.PurgeStale(ctx, now)
	must(err)
	if n != 2 {
		t.Fatalf("purged %d, want 2", n)
	}
	if id, err := tokens.ValidateRefresh(ctx, "live", now); err != nil || id != 1 {
		t.Fatalf("live token: %d %v", id, err)
	}
	if _, err := tokens.ValidateRefresh(ctx, "expired", now.Add(-time.Hour)); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expired token should be gone: %v", err)
	}
}

func TestRevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	tokens := New().Tokens()
	_ = tokens.StoreRefresh(ctx, 1, "a", now.Add(time.Hour))
	_ = tokens.StoreRefresh(ctx, 1, "b", now.Add(time.Hour))
	_ = tokens.StoreRefresh(ctx, 2, "c", now.Add(time.Hour))

	if err := tokens.RevokeAllForUser(ctx, 1); err != nil {
		t.Fatal(err)
	}
	for _, h := range []string{"a", "b"} {
		if _, err := tokens.ValidateRefresh(ctx, h, now); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("%s still valid", h)
		}
	}
	if _, err := tokens.ValidateRefresh(ctx, "c", now); err != nil {
		t.Fatalf("other user's token revoked: %v", err)
	}
}

func TestReviewCreateRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	reviews := New().Reviews()

	first := &model.Review{UserID: 1, BookingID: 9, Rating: 5}
	if err := reviews.Create(ctx, first); err != nil || first.ID == 0 {
		t.Fatalf("first create: id=%d err=%v", first.ID, err)
	}
	err := reviews.Create(ctx, &model.Review{UserID: 1, BookingID: 9, Rating: 3})
	if !errors.Is(err, repository.ErrDuplicateReview) || !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("duplicate create: %v", err)
	}
	if err := reviews.Create(ctx, &model.Review{UserID: 2, BookingID: 9, Rating: 4}); err != nil {
		t.Fatalf("other user's review: %v", err)
	}
}
