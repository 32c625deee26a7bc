package service

import (
	"context"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

// DefaultStatsDays is the window used when no day count is given.
const DefaultStatsDays = 30

type AnalyticsService struct {
	gw      *Gateway
	traffic AnalyticsStore
	clock   Clock
}

func NewAnalyticsService(gw *Gateway, traffic AnalyticsStore, clock Clock) *AnalyticsService {
	return &AnalyticsService{gw: gw, traffic: traffic, clock: clock}
}

func (s *AnalyticsService) today() string { return s.clock.Now().UTC().Format(model.DateLayout) }

// TrackPageView counts one page view against today's row.
func (s *AnalyticsService) TrackPageView(ctx context.Context) error {
	return s.traffic.Increment(ctx, s.today(), 0, 1)
}

// TrackVisitor counts one visitor against today's row.
func (s *AnalyticsService) TrackVisitor(ctx context.Context) error {
	return s.traffic.Increment(ctx, s.today(), 1, 0)
}

// Stats sums the last days days (DefaultStatsDays when days <= 0) and
// returns the daily rows in date order.
func (s *AnalyticsService) Stats(ctx context.Context, caller model.UserID, days int) (Guarded[*model.TrafficStats], error) {
	_, denied, err := s.gw.Inspect(ctx, caller)
	if err != nil || denied != Allowed {
		return deny[*model.TrafficStats](denied), err
	}
	if days <= 0 {
		days = DefaultStatsDays
	}
	from := s.clock.Now().UTC().AddDate(0, 0, -days).Format(model.DateLayout)
	rows, err := s.traffic.ListSince(ctx, from)
	if err != nil {
		return Guarded[*model.TrafficStats]{}, err
	}
	st := &model.TrafficStats{DailyData: []model.DailyTraffic{}}
	for _, r := range rows {
		st.TotalVisitors += r.Visitors
		st.TotalPageViews += r.PageViews
		st.DailyData = append(st.DailyData, r)
	}
	return allow(st), nil
}

// TotalTraffic sums every recorded day.
func (s *AnalyticsService) TotalTraffic(ctx context.Context, caller model.UserID) (Guarded[*model.TrafficTotals], error) {
	_, denied, err := s.gw.Inspect(ctx, caller)
	if err != nil || denied != Allowed {
		return deny[*model.TrafficTotals](denied), err
	}
	rows, err := s.traffic.ListSince(ctx, "")
	if err != nil {
		return Guarded[*model.TrafficTotals]{}, err
	}
	t := &model.TrafficTotals{}
	for _, r := range rows {
		t.Visitors += r.Visitors
		t.PageViews += r.PageViews
	}
	return allow(t), nil
}
