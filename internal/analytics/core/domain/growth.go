package domain

// GrowthMetric compares one top-line counter across two equivalent windows.
type GrowthMetric struct {
	Name          string
	Current       int64
	Previous      int64
	ChangePercent float64
}

// ChangePercent applies the fixed zero-division policy:
// previous=0 and current=0 is 0; previous=0 and current>0 is 100;
// otherwise the standard relative change.
func ChangePercent(previous, current int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return float64(current-previous) / float64(previous) * 100
}

// ComputeGrowth derives per-counter deltas from two already-computed bundles.
// Pure arithmetic; never re-queries.
func ComputeGrowth(current, previous *MetricsBundle) []GrowthMetric {
	pairs := []struct {
		name string
		cur  int64
		prev int64
	}{
		{"Searches", current.TotalSearches, previous.TotalSearches},
		{"Activity views", current.TotalViews, previous.TotalViews},
		{"Registrations", current.TotalRegistrations, previous.TotalRegistrations},
		{"Unique participants", current.UniqueActors, previous.UniqueActors},
	}

	metrics := make([]GrowthMetric, 0, len(pairs))
	for _, p := range pairs {
		metrics = append(metrics, GrowthMetric{
			Name:          p.name,
			Current:       p.cur,
			Previous:      p.prev,
			ChangePercent: ChangePercent(p.prev, p.cur),
		})
	}
	return metrics
}
