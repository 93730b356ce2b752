package models

// HistoryLimit bounds the per-profile daily view history. Once the history
// is full the oldest entry is evicted first.
const HistoryLimit = 30

// DailyViews is one calendar-date bucket of the view history.
type DailyViews struct {
	Date  string `json:"date"` // UTC date, "2006-01-02"
	Views int    `json:"views"`
}

// AnalyticsData accumulates public-page counters for one username.
// All counters are monotonic; LinkClicks maps a content item id to its
// click count.
type AnalyticsData struct {
	TotalViews   int            `json:"totalViews"`
	TotalRevenue float64        `json:"totalRevenue"`
	LinkClicks   map[string]int `json:"linkClicks"`
	History      []DailyViews   `json:"history"`
}

// NewAnalyticsData returns the empty default record.
func NewAnalyticsData() *AnalyticsData {
	return &AnalyticsData{
		LinkClicks: make(map[string]int),
		History:    []DailyViews{},
	}
}
