package ports

import (
	"context"

	"activity-report-service/internal/analytics/core/domain"
)

// EventFilter is pushed down to the store where possible. Remaining
// filtering (catalog-resolved categories) happens in the aggregator.
type EventFilter struct {
	Kind     domain.EventKind
	From     int64 // unix second, inclusive
	To       int64 // unix second, exclusive
	StoreID  *string
	Category *string
}

// EventStorePort is the read boundary to the raw event source. No ordering
// guarantee is assumed; the aggregator sorts its own results. Implementations
// must honor ctx cancellation.
type EventStorePort interface {
	QueryEvents(ctx context.Context, f EventFilter) ([]domain.RawEvent, error)
	QueryCatalog(ctx context.Context) ([]domain.CatalogEntry, error)
}
