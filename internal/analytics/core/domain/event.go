package domain

import "time"

type EventKind string

const (
	EventSearch       EventKind = "search"
	EventActivityView EventKind = "activity_view"
	EventRegistration EventKind = "registration"
)

// UncategorizedLabel marks events whose entity name has no match in the
// reference catalog. Unmatched records are kept, never dropped.
const UncategorizedLabel = "Uncategorized"

// RawEvent is a single interaction record as stored by the ingestion path.
// Dimension labels are denormalized onto the event; there is no shared id
// between the event source and the reference catalog.
type RawEvent struct {
	Kind         EventKind
	OccurredAt   time.Time
	ActorID      string // empty for anonymous actors
	EntityName   string // searched game term or viewed entity name
	Category     string
	StoreName    string
	ActivityName string
}

// CatalogEntry is one row of the reference catalog (known games).
type CatalogEntry struct {
	ID       string
	Name     string
	Category string
}
