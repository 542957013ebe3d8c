package domain

// DimensionMetric is one ranked row of a grouped result. UniqueActors is the
// window-global distinct actor count, reused across all groupings; it is not
// a per-dimension distinct count.
type DimensionMetric struct {
	DimensionID    string // empty when the name had no catalog match
	DisplayName    string
	Count          int64
	UniqueActors   int64
	SecondaryCount int64
	Category       string
}

// CategoryShare is one slice of a percentage breakdown. Percentage sums to
// ~100 across a non-empty result set.
type CategoryShare struct {
	Category     string
	Count        int64
	Percentage   float64
	UniqueActors int64
}

// TrendPoint carries per-day counters. Days without events are not
// synthesized; the series is sparse and chronologically ascending.
type TrendPoint struct {
	Day               string // "2006-01-02"
	SearchCount       int64
	ViewCount         int64
	RegistrationCount int64
}

// MetricsBundle is the full aggregation output for one window. All grouped
// lists are derived from the same fetched event sets.
type MetricsBundle struct {
	Window PeriodWindow

	TopGames       []DimensionMetric
	CategoryShares []CategoryShare
	TopStores      []DimensionMetric
	TopActivities  []DimensionMetric
	Trend          []TrendPoint

	TotalSearches      int64
	TotalViews         int64
	TotalRegistrations int64
	UniqueActors       int64
}
