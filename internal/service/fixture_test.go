package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
	"github.com/divyansh01440/nirvana-agency/internal/repository/memstore"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time          { return c.t }
func (c *fixedClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	store     *memstore.Store
	clock     *fixedClock
	pub       *recordingPublisher
	gw        *Gateway
	auth      *AuthService
	recovery  *RecoveryService
	bookings  *BookingService
	queries   *QueryService
	reviews   *ReviewService
	projects  *ProjectService
	analytics *AnalyticsService
	dir       *DirectoryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	clk := &fixedClock{t: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)}
	pub := &recordingPublisher{}
	users, tokens := st.Users(), st.Tokens()
	gw := NewGateway(users)
	cfg := AuthConfig{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}
	return &fixture{
		store:     st,
		clock:     clk,
		pub:       pub,
		gw:        gw,
		auth:      NewAuthService(cfg, users, tokens, gw, clk, pub, nil),
		recovery:  NewRecoveryService(users, tokens, clk, bcrypt.MinCost, pub, nil),
		bookings:  NewBookingService(gw, st.Bookings(), users, pub, nil),
		queries:   NewQueryService(gw, st.Queries(), pub, nil),
		reviews:   NewReviewService(gw, st.Reviews(), st.Bookings(), users, pub, nil),
		projects:  NewProjectService(gw, st.Projects()),
		analytics: NewAnalyticsService(gw, st.Analytics(), clk),
		dir:       NewDirectoryService(gw, users, nil),
	}
}

func (f *fixture) register(t *testing.T, email, username, hint string) *Session {
	t.Helper()
	s, err := f.auth.Register(context.Background(), RegisterInput{
		Email: email, Password: "password1", ConfirmPassword: "password1",
		Name: username, Username: username, PasswordHint: hint,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return s
}

func (f *fixture) user(t *testing.T, email string) model.UserID {
	t.Helper()
	return f.register(t, email, "", "").User.ID
}

func (f *fixture) admin(t *testing.T) model.UserID {
	t.Helper()
	id := f.user(t, "admin@agency.test")
	if _, err := f.dir.MakeAdmin(context.Background(), "admin@agency.test"); err != nil {
		t.Fatalf("make admin: %v", err)
	}
	return id
}

func (f *fixture) booking(t *testing.T, owner model.UserID) model.BookingID {
	t.Helper()
	id, err := f.bookings.Create(context.Background(), owner, BookingInput{
		CompanyName: "Acme", Email: "ops@acme.test", Service: string(model.ServiceSEO),
		ContactNumber: "5550100", State: "KA", City: "Bengaluru", Address: "1 MG Road", Pincode: "560001",
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return id
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("error = %v, want kind %v", err, kind)
	}
}
