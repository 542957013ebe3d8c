package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"activity-report-service/internal/analytics/core/domain"
	"activity-report-service/internal/analytics/core/ports"
)

var ErrInvalidLimit = errors.New("invalid result limit")

// DefaultLimit caps ranked lists when the caller does not ask otherwise.
const DefaultLimit = 10

const defaultMaxParallel = 4

// DataSourceError wraps a failed sub-query so callers can see which fetch
// broke. A single failed sub-fetch aborts the whole Aggregate call; there is
// no partial-results mode.
type DataSourceError struct {
	Query string
	Err   error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source query %q failed: %v", e.Query, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// AggregateFilters optionally restrict the window by store and/or category.
type AggregateFilters struct {
	StoreID  *string
	Category *string
	Limit    int
}

type MetricsAggregator struct {
	store       ports.EventStorePort
	catalog     *CatalogCache
	log         *zap.Logger
	maxParallel int
}

func NewMetricsAggregator(store ports.EventStorePort, catalog *CatalogCache, log *zap.Logger) *MetricsAggregator {
	return &MetricsAggregator{
		store:       store,
		catalog:     catalog,
		log:         log,
		maxParallel: defaultMaxParallel,
	}
}

// Aggregate fetches the window's raw events and derives every grouped result
// from them. The per-kind fetches and the catalog load run concurrently;
// the first failure cancels the rest (fail-fast).
func (a *MetricsAggregator) Aggregate(ctx context.Context, window domain.PeriodWindow, f AggregateFilters) (*domain.MetricsBundle, error) {
	if f.Limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, f.Limit)
	}
	limit := f.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	var (
		searches      []domain.RawEvent
		views         []domain.RawEvent
		registrations []domain.RawEvent
		catalogByName map[string]domain.CatalogEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxParallel)

	// Category is denormalized onto view/registration events, so it pushes
	// down. Search terms only gain a category after catalog matching, so
	// their category filter is applied in memory below.
	g.Go(func() error {
		evs, err := a.store.QueryEvents(gctx, ports.EventFilter{
			Kind:    domain.EventSearch,
			From:    window.Start.Unix(),
			To:      window.End.Unix(),
			StoreID: f.StoreID,
		})
		if err != nil {
			return &DataSourceError{Query: "search_events", Err: err}
		}
		searches = evs
		return nil
	})

	g.Go(func() error {
		evs, err := a.store.QueryEvents(gctx, ports.EventFilter{
			Kind:     domain.EventActivityView,
			From:     window.Start.Unix(),
			To:       window.End.Unix(),
			StoreID:  f.StoreID,
			Category: f.Category,
		})
		if err != nil {
			return &DataSourceError{Query: "view_events", Err: err}
		}
		views = evs
		return nil
	})

	g.Go(func() error {
		evs, err := a.store.QueryEvents(gctx, ports.EventFilter{
			Kind:     domain.EventRegistration,
			From:     window.Start.Unix(),
			To:       window.End.Unix(),
			StoreID:  f.StoreID,
			Category: f.Category,
		})
		if err != nil {
			return &DataSourceError{Query: "registration_events", Err: err}
		}
		registrations = evs
		return nil
	})

	g.Go(func() error {
		byName, err := a.catalog.ByName(gctx, a.store)
		if err != nil {
			return &DataSourceError{Query: "reference_catalog", Err: err}
		}
		catalogByName = byName
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resolved := resolveSearches(searches, catalogByName)
	if f.Category != nil {
		resolved = filterByCategory(resolved, *f.Category)
	}

	bundle := &domain.MetricsBundle{
		Window:             window,
		TotalSearches:      int64(len(resolved)),
		TotalViews:         int64(len(views)),
		TotalRegistrations: int64(len(registrations)),
	}

	// Distinct actors are counted once over the whole filtered set and the
	// same figure is reused by every grouping below.
	bundle.UniqueActors = countUniqueActors(resolved, views, registrations)

	bundle.TopGames = rankGames(resolved, views, bundle.UniqueActors, limit)
	bundle.CategoryShares = categoryShares(resolved, bundle.UniqueActors)
	bundle.TopStores = rankByDimension(views, registrations, storeKey, bundle.UniqueActors, limit)
	bundle.TopActivities = rankByDimension(registrations, views, activityKey, bundle.UniqueActors, limit)
	bundle.Trend = buildTrend(resolved, views, registrations)

	a.log.Debug("aggregated window",
		zap.String("period", window.Label),
		zap.Int64("searches", bundle.TotalSearches),
		zap.Int64("views", bundle.TotalViews),
		zap.Int64("registrations", bundle.TotalRegistrations),
	)

	return bundle, nil
}

// resolvedSearch pairs a raw search event with its catalog resolution.
type resolvedSearch struct {
	event domain.RawEvent
	entry domain.CatalogEntry
	match bool
}

// resolveSearches matches search terms against the catalog by exact
// case-sensitive name. Unmatched terms keep the raw label under the
// uncategorized sentinel instead of being dropped.
func resolveSearches(searches []domain.RawEvent, catalogByName map[string]domain.CatalogEntry) []resolvedSearch {
	out := make([]resolvedSearch, 0, len(searches))
	for _, ev := range searches {
		entry, ok := catalogByName[ev.EntityName]
		if !ok {
			entry = domain.CatalogEntry{Name: ev.EntityName, Category: domain.UncategorizedLabel}
		}
		out = append(out, resolvedSearch{event: ev, entry: entry, match: ok})
	}
	return out
}

func filterByCategory(resolved []resolvedSearch, category string) []resolvedSearch {
	out := resolved[:0:0]
	for _, r := range resolved {
		if r.entry.Category == category {
			out = append(out, r)
		}
	}
	return out
}

func countUniqueActors(resolved []resolvedSearch, sets ...[]domain.RawEvent) int64 {
	seen := make(map[string]bool)
	for _, r := range resolved {
		if r.event.ActorID != "" {
			seen[r.event.ActorID] = true
		}
	}
	for _, set := range sets {
		for _, ev := range set {
			if ev.ActorID != "" {
				seen[ev.ActorID] = true
			}
		}
	}
	return int64(len(seen))
}

// rankGames groups resolved searches by game, in first-seen order, then sorts
// descending by count. SecondaryCount is how often activities for the same
// game were viewed in the window.
func rankGames(resolved []resolvedSearch, views []domain.RawEvent, uniqueActors int64, limit int) []domain.DimensionMetric {
	viewsByEntity := make(map[string]int64)
	for _, ev := range views {
		if ev.EntityName != "" {
			viewsByEntity[ev.EntityName]++
		}
	}

	index := make(map[string]int)
	var metrics []domain.DimensionMetric
	for _, r := range resolved {
		name := r.entry.Name
		i, ok := index[name]
		if !ok {
			i = len(metrics)
			index[name] = i
			metrics = append(metrics, domain.DimensionMetric{
				DimensionID:    r.entry.ID,
				DisplayName:    name,
				UniqueActors:   uniqueActors,
				SecondaryCount: viewsByEntity[name],
				Category:       r.entry.Category,
			})
		}
		metrics[i].Count++
	}

	return sortAndTruncate(metrics, limit)
}

// categoryShares derives the percentage breakdown from the same resolved set.
// Empty-safe: an empty set yields an empty slice, never a division by zero.
func categoryShares(resolved []resolvedSearch, uniqueActors int64) []domain.CategoryShare {
	index := make(map[string]int)
	var shares []domain.CategoryShare
	var total int64
	for _, r := range resolved {
		cat := r.entry.Category
		i, ok := index[cat]
		if !ok {
			i = len(shares)
			index[cat] = i
			shares = append(shares, domain.CategoryShare{Category: cat, UniqueActors: uniqueActors})
		}
		shares[i].Count++
		total++
	}

	if total > 0 {
		for i := range shares {
			shares[i].Percentage = float64(shares[i].Count) / float64(total) * 100
		}
	}

	sort.SliceStable(shares, func(i, j int) bool { return shares[i].Count > shares[j].Count })
	return shares
}

func storeKey(ev domain.RawEvent) string    { return ev.StoreName }
func activityKey(ev domain.RawEvent) string { return ev.ActivityName }

// rankByDimension groups primary events by key and annotates each row with
// the count of secondary events sharing that key.
func rankByDimension(primary, secondary []domain.RawEvent, key func(domain.RawEvent) string, uniqueActors int64, limit int) []domain.DimensionMetric {
	secondaryCounts := make(map[string]int64)
	for _, ev := range secondary {
		if k := key(ev); k != "" {
			secondaryCounts[k]++
		}
	}

	index := make(map[string]int)
	var metrics []domain.DimensionMetric
	for _, ev := range primary {
		k := key(ev)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(metrics)
			index[k] = i
			metrics = append(metrics, domain.DimensionMetric{
				DisplayName:    k,
				UniqueActors:   uniqueActors,
				SecondaryCount: secondaryCounts[k],
				Category:       ev.Category,
			})
		}
		metrics[i].Count++
	}

	return sortAndTruncate(metrics, limit)
}

// sortAndTruncate orders descending by count. The sort is stable, so ties
// keep their first-seen order.
func sortAndTruncate(metrics []domain.DimensionMetric, limit int) []domain.DimensionMetric {
	sort.SliceStable(metrics, func(i, j int) bool { return metrics[i].Count > metrics[j].Count })
	if limit > 0 && len(metrics) > limit {
		metrics = metrics[:limit]
	}
	return metrics
}

func buildTrend(resolved []resolvedSearch, views, registrations []domain.RawEvent) []domain.TrendPoint {
	const dayFormat = "2006-01-02"

	points := make(map[string]*domain.TrendPoint)
	touch := func(day string) *domain.TrendPoint {
		p, ok := points[day]
		if !ok {
			p = &domain.TrendPoint{Day: day}
			points[day] = p
		}
		return p
	}

	for _, r := range resolved {
		touch(r.event.OccurredAt.UTC().Format(dayFormat)).SearchCount++
	}
	for _, ev := range views {
		touch(ev.OccurredAt.UTC().Format(dayFormat)).ViewCount++
	}
	for _, ev := range registrations {
		touch(ev.OccurredAt.UTC().Format(dayFormat)).RegistrationCount++
	}

	days := make([]string, 0, len(points))
	for d := range points {
		days = append(days, d)
	}
	sort.Strings(days)

	trend := make([]domain.TrendPoint, 0, len(days))
	for _, d := range days {
		trend = append(trend, *points[d])
	}
	return trend
}
