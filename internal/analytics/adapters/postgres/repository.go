package postgres

import (
	"context"
	"fmt"
	"time"

	"activity-report-service/internal/analytics/core/domain"
	"activity-report-service/internal/analytics/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// EventStoreRepository reads raw interaction events and the game catalog.
// Time-window and equality filters are pushed down; no ordering is promised.
type EventStoreRepository struct {
	db DB
}

func NewEventStoreRepository(db DB) *EventStoreRepository {
	return &EventStoreRepository{db: db}
}

var _ ports.EventStorePort = (*EventStoreRepository)(nil)

const selectEventsSQL = `
SELECT
    kind,
    occurred_at,
    COALESCE(actor_id, ''),
    COALESCE(entity_name, ''),
    COALESCE(category, ''),
    COALESCE(store_name, ''),
    COALESCE(activity_name, '')
FROM events
WHERE kind = $1 AND occurred_at >= $2 AND occurred_at < $3`

func (r *EventStoreRepository) QueryEvents(ctx context.Context, f ports.EventFilter) ([]domain.RawEvent, error) {
	query := selectEventsSQL
	args := []any{string(f.Kind), time.Unix(f.From, 0).UTC(), time.Unix(f.To, 0).UTC()}
	argIndex := 4

	if f.StoreID != nil {
		query += fmt.Sprintf(" AND store_id = $%d", argIndex)
		args = append(args, *f.StoreID)
		argIndex++
	}
	if f.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, *f.Category)
		argIndex++
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.RawEvent
	for rows.Next() {
		var (
			kind       string
			occurredAt time.Time
			ev         domain.RawEvent
		)
		if err := rows.Scan(&kind, &occurredAt, &ev.ActorID, &ev.EntityName, &ev.Category, &ev.StoreName, &ev.ActivityName); err != nil {
			return nil, err
		}
		ev.Kind = domain.EventKind(kind)
		ev.OccurredAt = occurredAt.UTC()
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

const selectCatalogSQL = `
SELECT id, name, COALESCE(category, '')
FROM games`

func (r *EventStoreRepository) QueryCatalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectCatalogSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.CatalogEntry
	for rows.Next() {
		var e domain.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Category); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
