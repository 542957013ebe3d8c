package domain

import "time"

// GenerationParams records exactly what a report was generated from, so an
// archived document can be audited or regenerated later.
type GenerationParams struct {
	PeriodKind string `json:"period_kind"`
	Year       int    `json:"year"`
	Unit       int    `json:"unit"`

	StoreID  string `json:"store_id,omitempty"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`

	IncludeCharts bool   `json:"include_charts"`
	OwnerID       string `json:"owner_id,omitempty"`
}

// ReportDocument is the archived artifact: the opaque rendered payload plus
// its generating parameters. Immutable once created.
type ReportDocument struct {
	ID          string
	Params      GenerationParams
	PeriodLabel string
	GeneratedAt time.Time
	Document    []byte
}

// ReportSummary is the listing view; it omits the payload.
type ReportSummary struct {
	ID          string
	Params      GenerationParams
	PeriodLabel string
	GeneratedAt time.Time
}
