package repository

import (
	"context"
	"database/sql"

	"github.com/divyansh01440/nirvana-agency/internal/model"
)

// AnalyticsRepo keeps one traffic row per calendar date.
type AnalyticsRepo struct {
	db *sql.DB
}

func NewAnalyticsRepo(db *sql.DB) *AnalyticsRepo { return &AnalyticsRepo{db: db} }

// Increment adds the deltas to the row for date, creating it when absent.
// The upsert is a single statement, so concurrent calls never lose counts.
func (r *AnalyticsRepo) Increment(ctx context.Context, date string, visitors, pageViews int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO analytics (date, visitors, page_views) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE visitors = visitors + VALUES(visitors),
		                         page_views = page_views + VALUES(page_views)`,
		date, visitors, pageViews)
	return err
}

// ListSince returns rows with date >= from ("" for all), oldest first.
func (r *AnalyticsRepo) ListSince(ctx context.Context, from string) ([]model.DailyTraffic, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT date, visitors, page_views FROM analytics WHERE date >= ? ORDER BY date", from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.DailyTraffic
	for rows.Next() {
		var d model.DailyTraffic
		if err := rows.Scan(&d.Date, &d.Visitors, &d.PageViews); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
