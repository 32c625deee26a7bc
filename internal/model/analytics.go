package model

// DateLayout is the format of the analytics date key.
const DateLayout = "2006-01-02"

// DailyTraffic is the traffic row for one calendar day (UTC).
type DailyTraffic struct {
	Date      string `json:"date"`
	Visitors  int64  `json:"visitors"`
	PageViews int64  `json:"page_views"`
}

// TrafficStats summarises a window of days.
type TrafficStats struct {
	TotalVisitors  int64          `json:"total_visitors"`
	TotalPageViews int64          `json:"total_page_views"`
	DailyData      []DailyTraffic `json:"daily_data"`
}

// TrafficTotals sums every recorded day.
type TrafficTotals struct {
	Visitors  int64 `json:"visitors"`
	PageViews int64 `json:"page_views"`
}
