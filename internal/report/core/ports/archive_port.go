package ports

import (
	"context"
	"errors"

	"activity-report-service/internal/report/core/domain"
)

var ErrReportNotFound = errors.New("report not found")

// ListScope restricts visibility to an owner unless the caller was granted
// broader access. The authorization decision itself is made upstream and
// only arrives here as a constraint.
type ListScope struct {
	OwnerID string
	All     bool
}

type ReportArchivePort interface {
	Save(ctx context.Context, doc *domain.ReportDocument) error
	Get(ctx context.Context, id string) (*domain.ReportDocument, error)
	List(ctx context.Context, limit int, scope ListScope) ([]domain.ReportSummary, error)
}
