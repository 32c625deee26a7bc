// Package memstore is an in-memory implementation of the repositories in
// package repository.  It backs STORE_DRIVER=memory for local runs and
// is what the service and handler tests run against.  All methods are
// safe for concurrent use; uniqueness checks and inserts happen under the
// same lock, mirroring the unique indexes of the MySQL schema.
package memstore

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

type tokenRow struct {
	userID    model.UserID
	expiresAt time.Time
	revoked   bool
}

// Store holds every table.  Use the accessor methods to obtain the
// per-table repositories.
type Store struct {
	mu sync.Mutex

	users    map[model.UserID]model.User
	tokens   map[string]tokenRow
	bookings map[model.BookingID]model.Booking
	queries  map[model.QueryID]model.Query
	reviews  map[model.ReviewID]model.Review
	projects map[model.ProjectID]model.Project
	traffic  map[string]model.DailyTraffic

	nextUser, nextBooking, nextQuery, nextReview, nextProject uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[model.UserID]model.User),
		tokens:   make(map[string]tokenRow),
		bookings: make(map[model.BookingID]model.Booking),
		queries:  make(map[model.QueryID]model.Query),
		reviews:  make(map[model.ReviewID]model.Review),
		projects: make(map[model.ProjectID]model.Project),
		traffic:  make(map[string]model.DailyTraffic),
	}
}

func (s *Store) Users() *UserStore { return &UserStore{s} }
func (s *Store) Tokens() *TokenStore { return &TokenStore{s} }
func (s *Store) Bookings() *BookingStore { return &BookingStore{s} }
func (s *Store) Queries() *QueryStore { return &QueryStore{s} }
func (s *Store) Reviews() *ReviewStore { return &ReviewStore{s} }
func (s *Store) Projects() *ProjectStore { return &ProjectStore{s} }
func (s *Store) Analytics() *AnalyticsStore { return &AnalyticsStore{s} }

func now() time.Time { return time.Now().UTC() }

// sortedKeys returns map keys in ascending order so listings match the
// ORDER BY id of the SQL repositories.
func sortedKeys[K ~uint64, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }
