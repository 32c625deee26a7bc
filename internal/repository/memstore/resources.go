package memstore

import (
	"context"
	"sort"

	"github.com/divyansh01440/nirvana-agency/internal/model"
	"github.com/divyansh01440/nirvana-agency/internal/repository"
)

// BookingStore is the in-memory bookings table.
type BookingStore struct{ s *Store }

func (b *BookingStore) Create(_ context.Context, bk *model.Booking) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	if bk.Status == "" {
		bk.Status = model.BookingPending
	}
	b.s.nextBooking++
	bk.ID = model.BookingID(b.s.nextBooking)
	bk.CreatedAt, bk.UpdatedAt = now(), now()
	b.s.bookings[bk.ID] = *bk
	return nil
}

func (b *BookingStore) GetByID(_ context.Context, id model.BookingID) (*model.Booking, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	bk, ok := b.s.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &bk, nil
}

func (b *BookingStore) filter(keep func(model.Booking) bool) []model.Booking {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	var out []model.Booking
	for _, id := range sortedKeys(b.s.bookings) {
		if bk := b.s.bookings[id]; keep(bk) {
			out = append(out, bk)
		}
	}
	return out
}

func (b *BookingStore) ListByUser(_ context.Context, userID model.UserID) ([]model.Booking, error) {
	return b.filter(func(bk model.Booking) bool { return bk.UserID == userID }), nil
}

func (b *BookingStore) List(_ context.Context, status *model.BookingStatus) ([]model.Booking, error) {
	return b.filter(func(bk model.Booking) bool { return status == nil || bk.Status == *status }), nil
}

func (b *BookingStore) UpdateStatus(_ context.Context, id model.BookingID, status model.BookingStatus) error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	bk, ok := b.s.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	bk.Status, bk.UpdatedAt = status, now()
	b.s.bookings[id] = bk
	return nil
}

// QueryStore is the in-memory contact message table.
type QueryStore struct{ s *Store }

func (q *QueryStore) Create(_ context.Context, qr *model.Query) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	if qr.Status == "" {
		qr.Status = model.QueryPending
	}
	q.s.nextQuery++
	qr.ID = model.QueryID(q.s.nextQuery)
	qr.CreatedAt, qr.UpdatedAt = now(), now()
	q.s.queries[qr.ID] = *qr
	return nil
}

func (q *QueryStore) List(_ context.Context, status *model.QueryStatus) ([]model.Query, error) {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	var out []model.Query
	for _, id := range sortedKeys(q.s.queries) {
		if qr := q.s.queries[id]; status == nil || qr.Status == *status {
			out = append(out, qr)
		}
	}
	return out, nil
}

func (q *QueryStore) UpdateStatus(_ context.Context, id model.QueryID, status model.QueryStatus) error {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	qr, ok := q.s.queries[id]
	if !ok {
		return repository.ErrNotFound
	}
	qr.Status, qr.UpdatedAt = status, now()
	q.s.queries[id] = qr
	return nil
}

// ReviewStore is the in-memory reviews table.
type ReviewStore struct{ s *Store }

// Create enforces the (user, booking) uniqueness under the store lock.
func (r *ReviewStore) Create(_ context.Context, rv *model.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reviews {
		if existing.UserID == rv.UserID && existing.BookingID == rv.BookingID {
			return repository.ErrDuplicateReview
		}
	}
	r.s.nextReview++
	rv.ID = model.ReviewID(r.s.nextReview)
	rv.CreatedAt = now()
	r.s.reviews[rv.ID] = *rv
	return nil
}

func (r *ReviewStore) filter(keep func(model.Review) bool) []model.Review {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Review
	for _, id := range sortedKeys(r.s.reviews) {
		if rv := r.s.reviews[id]; keep(rv) {
			out = append(out, rv)
		}
	}
	return out
}

func (r *ReviewStore) ListByUser(_ context.Context, userID model.UserID) ([]model.Review, error) {
	return r.filter(func(rv model.Review) bool { return rv.UserID == userID }), nil
}

func (r *ReviewStore) List(_ context.Context, approved *bool) ([]model.Review, error) {
	return r.filter(func(rv model.Review) bool { return approved == nil || rv.Approved == *approved }), nil
}

func (r *ReviewStore) SetApproved(_ context.Context, id model.ReviewID, approved bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rv, ok := r.s.reviews[id]
	if !ok {
		return repository.ErrNotFound
	}
	rv.Approved = approved
	r.s.reviews[id] = rv
	return nil
}

// ProjectStore is the in-memory portfolio table.
type ProjectStore struct{ s *Store }

func (p *ProjectStore) Create(_ context.Context, pr *model.Project) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.nextProject++
	pr.ID = model.ProjectID(p.s.nextProject)
	pr.CreatedAt, pr.UpdatedAt = now(), now()
	p.s.projects[pr.ID] = *pr
	return nil
}

func (p *ProjectStore) GetByID(_ context.Context, id model.ProjectID) (*model.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	pr, ok := p.s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &pr, nil
}

func (p *ProjectStore) List(_ context.Context) ([]model.Project, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	out := make([]model.Project, 0, len(p.s.projects))
	for _, id := range sortedKeys(p.s.projects) {
		out = append(out, p.s.projects[id])
	}
	return out, nil
}

func (p *ProjectStore) Update(_ context.Context, pr *model.Project) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	old, ok := p.s.projects[pr.ID]
	if !ok {
		return repository.ErrNotFound
	}
	pr.CreatedAt, pr.UpdatedAt = old.CreatedAt, now()
	p.s.projects[pr.ID] = *pr
	return nil
}

func (p *ProjectStore) Delete(_ context.Context, id model.ProjectID) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	if _, ok := p.s.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(p.s.projects, id)
	return nil
}

// AnalyticsStore is the in-memory per-day traffic table.
type AnalyticsStore struct{ s *Store }

func (a *AnalyticsStore) Increment(_ context.Context, date string, visitors, pageViews int64) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	row := a.s.traffic[date]
	row.Date = date
	row.Visitors += visitors
	row.PageViews += pageViews
	a.s.traffic[date] = row
	return nil
}

func (a *AnalyticsStore) ListSince(_ context.Context, from string) ([]model.DailyTraffic, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()
	var out []model.DailyTraffic
	for date, row := range a.s.traffic {
		if date >= from {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
