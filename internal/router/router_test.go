package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/divyansh01440/nirvana-agency/internal/handler"
	"github.com/divyansh01440/nirvana-agency/internal/queue"
	"github.com/divyansh01440/nirvana-agency/internal/repository/memstore"
	"github.com/divyansh01440/nirvana-agency/internal/service"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

type app struct {
	e      *echo.Echo
	clock  *testClock
	dir    *service.DirectoryService
	purged []string
}

func newApp(t *testing.T) *app {
	t.Helper()
	log := zap.NewNop()
	st := memstore.New()
	clk := &testClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	users, tokens := st.Users(), st.Tokens()
	pub := queue.Discard{}
	gw := service.NewGateway(users)
	cfg := service.AuthConfig{JWTSecret: "router-secret", AccessTTLMin: 60, RefreshTTLDays: 1, BcryptCost: bcrypt.MinCost}
	dir := service.NewDirectoryService(gw, users, log)

	a := &app{clock: clk, dir: dir}
	purge := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil && c.Response().Status < 400 {
				a.purged = append(a.purged, c.Request().Method+" "+c.Path())
			}
			return err
		}
	}

	e := echo.New()
	Register(e, Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(cfg, users, tokens, gw, clk, pub, log), log),
		Recovery:  handler.NewRecoveryHandler(service.NewRecoveryService(users, tokens, clk, bcrypt.MinCost, pub, log), log),
		Bookings:  handler.NewBookingHandler(service.NewBookingService(gw, st.Bookings(), users, pub, log), log),
		Queries:   handler.NewQueryHandler(service.NewQueryService(gw, st.Queries(), pub, log), log),
		Reviews:   handler.NewReviewHandler(service.NewReviewService(gw, st.Reviews(), st.Bookings(), users, pub, log), log),
		Projects:  handler.NewProjectHandler(service.NewProjectService(gw, st.Projects()), log),
		Analytics: handler.NewAnalyticsHandler(service.NewAnalyticsService(gw, st.Analytics(), clk), log),
		Admin:     handler.NewAdminHandler(dir, log),
		Ready:     handler.Ready(nil),
	}, Options{JWTSecret: cfg.JWTSecret, Log: log, Purge: purge})
	a.e = e
	return a
}

func (a *app) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

type session struct {
	User struct {
		ID   uint64 `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	Access struct {
		Token string `json:"token"`
	} `json:"access"`
	Refresh struct {
		Token string `json:"token"`
	} `json:"refresh"`
}

func (a *app) signup(t *testing.T, email, username, hint string) session {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": email, "username": username, "name": username, "password_hint": hint,
		"password": "password1", "confirm_password": "password1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: %d %s", email, rec.Code, rec.Body)
	}
	return decode[session](t, rec)
}

func (a *app) adminToken(t *testing.T) string {
	t.Helper()
	a.signup(t, "admin@agency.test", "admin", "")
	if _, err := a.dir.MakeAdmin(context.Background(), "admin@agency.test"); err != nil {
		t.Fatal(err)
	}
	rec := a.do(t, http.MethodPost, "/v1/auth/login", "", map[string]string{"identifier": "admin", "password": "password1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login: %d %s", rec.Code, rec.Body)
	}
	s := decode[session](t, rec)
	if s.User.Role != "admin" {
		t.Fatalf("role = %q", s.User.Role)
	}
	return s.Access.Token
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	if rec := a.do(t, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body)
	}
	if rec := a.do(t, http.MethodGet, "/readyz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d", rec.Code)
	}
}

func TestSignupAndCurrentUser(t *testing.T) {
	a := newApp(t)
	s := a.signup(t, "a@x.com", "alice", "")
	if s.User.Role != "user" {
		t.Fatalf("role = %q", s.User.Role)
	}

	rec := a.do(t, http.MethodGet, "/v1/me", "", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" {
		t.Fatalf("anonymous me: %d %q", rec.Code, rec.Body)
	}
	rec = a.do(t, http.MethodGet, "/v1/me", s.Access.Token, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"email":"a@x.com"`) {
		t.Fatalf("me: %d %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("secrets leaked: %s", rec.Body)
	}

	rec = a.do(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"email": "other@x.com", "username": "alice", "password": "password1", "confirm_password": "password1",
	})
	body := decode[map[string]string](t, rec)
	if rec.Code != http.StatusConflict || body["code"] != "conflict" {
		t.Fatalf("duplicate username: %d %v", rec.Code, body)
	}
}

func TestGuardedReadsAnswerEmptyWithReason(t *testing.T) {
	a := newApp(t)
	user := a.signup(t, "a@x.com", "alice", "")

	cases := []struct {
		token, reason string
	}{
		{"", "not_authenticated"},
		{user.Access.Token, "not_authorized"},
	}
	for _, path := range []string{"/v1/bookings", "/v1/queries", "/v1/reviews"} {
		for _, tc := range cases {
			rec := a.do(t, http.MethodGet, path, tc.token, nil)
			if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
				t.Fatalf("%s: %d %q", path, rec.Code, rec.Body)
			}
			if got := rec.Header().Get(handler.HeaderAccessDenied); got != tc.reason {
				t.Fatalf("%s: denial = %q, want %q", path, got, tc.reason)
			}
		}
	}
}

func TestAdminWritesRejectOthers(t *testing.T) {
	a := newApp(t)
	user := a.signup(t, "a@x.com", "alice", "")

	if rec := a.do(t, http.MethodPatch, "/v1/bookings/1/status", "", map[string]string{"status": "Attended"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodPatch, "/v1/bookings/1/status", user.Access.Token, map[string]string{"status": "Attended"}); rec.Code != http.StatusForbidden {
		t.Fatalf("user: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodPost, "/v1/projects", user.Access.Token, map[string]string{"name": "x"}); rec.Code != http.StatusForbidden {
		t.Fatalf("project create: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodGet, "/v1/admin/users", user.Access.Token, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("admin users: %d", rec.Code)
	}
}

func TestReviewFlow(t *testing.T) {
	a := newApp(t)
	admin := a.adminToken(t)
	owner := a.signup(t, "a@x.com", "alice", "")

	rec := a.do(t, http.MethodPost, "/v1/bookings", owner.Access.Token, map[string]string{
		"company_name": "Acme", "email": "ops@acme.test", "service": "Meta Ads Marketing",
		"contact_number": "5550100", "state": "KA", "city": "Mysuru", "address": "2 Palace Rd", "pincode": "570001",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("booking: %d %s", rec.Code, rec.Body)
	}
	bookingID := decode[map[string]uint64](t, rec)["id"]

	review := map[string]any{"booking_id": bookingID, "rating": 5, "feedback": "great"}
	if rec := a.do(t, http.MethodPost, "/v1/reviews", owner.Access.Token, review); rec.Code != http.StatusBadRequest {
		t.Fatalf("review before purchase: %d %s", rec.Code, rec.Body)
	}

	path := "/v1/bookings/" + jsonNum(bookingID) + "/status"
	if rec := a.do(t, http.MethodPatch, path, admin, map[string]string{"status": "Purchased Service"}); rec.Code != http.StatusOK {
		t.Fatalf("status: %d %s", rec.Code, rec.Body)
	}
	if rec := a.do(t, http.MethodPost, "/v1/reviews", owner.Access.Token, review); rec.Code != http.StatusCreated {
		t.Fatalf("review: %d %s", rec.Code, rec.Body)
	}
	if rec := a.do(t, http.MethodPost, "/v1/reviews", owner.Access.Token, review); rec.Code != http.StatusConflict {
		t.Fatalf("second review: %d %s", rec.Code, rec.Body)
	}

	rec = a.do(t, http.MethodGet, "/v1/bookings?status=Purchased%20Service", admin, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"user_name":"alice"`) {
		t.Fatalf("admin list: %d %s", rec.Code, rec.Body)
	}
}

func TestRecoveryStatusCodes(t *testing.T) {
	a := newApp(t)
	a.signup(t, "a@x.com", "alice", "Fluffy")

	rec := a.do(t, http.MethodPost, "/v1/password-reset/request", "", map[string]string{"email": "a@x.com"})
	if rec.Code != http.StatusOK || decode[map[string]string](t, rec)["hint"] != "Fluffy" {
		t.Fatalf("request: %d %s", rec.Code, rec.Body)
	}
	if rec := a.do(t, http.MethodPost, "/v1/password-reset/request", "", map[string]string{"email": "x@x.com"}); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown email: %d", rec.Code)
	}

	rec = a.do(t, http.MethodPost, "/v1/password-reset/token", "", map[string]string{"email": "a@x.com"})
	token := decode[map[string]string](t, rec)["token"]

	if rec := a.do(t, http.MethodPost, "/v1/password-reset/verify", "", map[string]string{"token": token, "hint": "rex"}); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("mismatch: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodPost, "/v1/password-reset/verify", "", map[string]string{"token": token, "hint": "FLUFFY"}); rec.Code != http.StatusOK {
		t.Fatalf("verify: %d %s", rec.Code, rec.Body)
	}

	a.clock.t = a.clock.t.Add(time.Hour + time.Millisecond)
	if rec := a.do(t, http.MethodPost, "/v1/password-reset/verify", "", map[string]string{"token": token, "hint": "Fluffy"}); rec.Code != http.StatusGone {
		t.Fatalf("expired: %d", rec.Code)
	}
}

func TestAnalyticsOverHTTP(t *testing.T) {
	a := newApp(t)
	admin := a.adminToken(t)
	for i := 0; i < 2; i++ {
		if rec := a.do(t, http.MethodPost, "/v1/analytics/page-view", "", nil); rec.Code != http.StatusNoContent {
			t.Fatalf("page view: %d", rec.Code)
		}
	}
	rec := a.do(t, http.MethodGet, "/v1/analytics/stats?days=7", admin, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total_page_views":2`) {
		t.Fatalf("stats: %d %s", rec.Code, rec.Body)
	}
	if rec := a.do(t, http.MethodGet, "/v1/analytics/stats?days=abc", admin, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad days: %d", rec.Code)
	}
	rec = a.do(t, http.MethodGet, "/v1/analytics/total", "", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "null" || rec.Header().Get(handler.HeaderAccessDenied) == "" {
		t.Fatalf("anonymous total: %d %q", rec.Code, rec.Body)
	}
}

func TestWritesPurgePublicCache(t *testing.T) {
	a := newApp(t)
	admin := a.adminToken(t)
	user := a.signup(t, "a@x.com", "alice", "")

	if rec := a.do(t, http.MethodPut, "/v1/me/profile", user.Access.Token, map[string]string{"name": "Alice B"}); rec.Code != http.StatusOK {
		t.Fatalf("profile: %d %s", rec.Code, rec.Body)
	}
	if rec := a.do(t, http.MethodPost, "/v1/projects", admin, map[string]string{"name": "Site", "description": "d"}); rec.Code != http.StatusCreated {
		t.Fatalf("project: %d %s", rec.Code, rec.Body)
	}
	if rec := a.do(t, http.MethodDelete, "/v1/admin/users/"+jsonNum(user.User.ID), admin, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete user: %d %s", rec.Code, rec.Body)
	}

	want := []string{"PUT /v1/me/profile", "POST /v1/projects", "DELETE /v1/admin/users/:id"}
	if strings.Join(a.purged, ",") != strings.Join(want, ",") {
		t.Fatalf("purged = %v, want %v", a.purged, want)
	}

	a.purged = nil
	if rec := a.do(t, http.MethodPut, "/v1/me/profile", "", map[string]string{"name": "x"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous profile: %d", rec.Code)
	}
	if len(a.purged) != 0 {
		t.Fatalf("failed write purged: %v", a.purged)
	}
}

func jsonNum(n uint64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
