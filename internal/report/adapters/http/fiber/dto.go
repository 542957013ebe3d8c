package fiber

import "time"

// GenerateReportRequest represents report generation payload
// @Description Report generation DTO
type GenerateReportRequest struct {
	PeriodKind    string  `json:"period_kind" example:"monthly"`
	Year          int     `json:"year" example:"2025"`
	Unit          int     `json:"unit" example:"3"`
	StoreID       *string `json:"store_id,omitempty"`
	Category      *string `json:"category,omitempty"`
	Limit         int     `json:"limit,omitempty"`
	IncludeCharts *bool   `json:"include_charts,omitempty"`
}

type GenerateReportResponse struct {
	ReportID     string    `json:"report_id"`
	PeriodLabel  string    `json:"period_label"`
	GeneratedAt  time.Time `json:"generated_at"`
	Archived     bool      `json:"archived"`
	ArchiveError string    `json:"archive_error,omitempty"`
}

type ReportSummaryResponse struct {
	ReportID    string    `json:"report_id"`
	PeriodLabel string    `json:"period_label"`
	PeriodKind  string    `json:"period_kind"`
	Year        int       `json:"year"`
	Unit        int       `json:"unit"`
	OwnerID     string    `json:"owner_id"`
	GeneratedAt time.Time `json:"generated_at"`
}

type ListReportsResponse struct {
	Reports []ReportSummaryResponse `json:"reports"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_period"`
	Message string `json:"message" example:"Report parameters are invalid"`
}
