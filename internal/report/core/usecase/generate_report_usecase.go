package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	adomain "activity-report-service/internal/analytics/core/domain"
	aggregate "activity-report-service/internal/analytics/core/usecase"
	"activity-report-service/internal/report/core/domain"
	"activity-report-service/internal/report/core/ports"
	"activity-report-service/internal/report/render"
)

// Aggregator is the slice of the analytics usecase this flow needs.
type Aggregator interface {
	Aggregate(ctx context.Context, window adomain.PeriodWindow, f aggregate.AggregateFilters) (*adomain.MetricsBundle, error)
}

// Layout renders aggregated metrics into the paginated document.
type Layout interface {
	BuildReport(in render.LayoutInput) ([]byte, error)
}

type GenerateReportInput struct {
	Period adomain.PeriodSpec

	StoreID  *string
	Category *string
	Limit    int

	IncludeCharts bool
	OwnerID       string
}

// GenerateReportResult always carries the rendered document when generation
// succeeded. ArchiveErr is reported separately: a failed save must not
// discard a finished report.
type GenerateReportResult struct {
	ReportID    string
	PeriodLabel string
	GeneratedAt time.Time
	Document    []byte
	ArchiveErr  error
}

type GenerateReportUseCase struct {
	aggregator Aggregator
	layout     Layout
	archive    ports.ReportArchivePort
	log        *zap.Logger
}

func NewGenerateReportUseCase(aggregator Aggregator, layout Layout, archive ports.ReportArchivePort, log *zap.Logger) *GenerateReportUseCase {
	return &GenerateReportUseCase{
		aggregator: aggregator,
		layout:     layout,
		archive:    archive,
		log:        log,
	}
}

// Execute runs the full pipeline: resolve windows, aggregate both periods in
// parallel, derive growth, lay out the document, then archive it. The two
// aggregation passes fail fast: the first error cancels the other and no
// document is rendered or saved.
func (uc *GenerateReportUseCase) Execute(ctx context.Context, in GenerateReportInput) (*GenerateReportResult, error) {
	current, previous, err := adomain.ResolvePeriod(in.Period)
	if err != nil {
		return nil, err
	}

	filters := aggregate.AggregateFilters{
		StoreID:  in.StoreID,
		Category: in.Category,
		Limit:    in.Limit,
	}

	var currentBundle, previousBundle *adomain.MetricsBundle

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := uc.aggregator.Aggregate(gctx, current, filters)
		if err != nil {
			return err
		}
		currentBundle = b
		return nil
	})
	g.Go(func() error {
		b, err := uc.aggregator.Aggregate(gctx, previous, filters)
		if err != nil {
			return err
		}
		previousBundle = b
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	growth := adomain.ComputeGrowth(currentBundle, previousBundle)

	generatedAt := time.Now().UTC()
	pdf, err := uc.layout.BuildReport(render.LayoutInput{
		Title:         "Activity Report",
		PeriodLabel:   current.Label,
		GeneratedAt:   generatedAt,
		FilterSummary: filterSummary(in),
		Current:       currentBundle,
		Previous:      previousBundle,
		Growth:        growth,
		IncludeCharts: in.IncludeCharts,
	})
	if err != nil {
		return nil, err
	}

	// A cancelled request must not leave a partial artifact behind.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &GenerateReportResult{
		ReportID:    uuid.NewString(),
		PeriodLabel: current.Label,
		GeneratedAt: generatedAt,
		Document:    pdf,
	}

	doc := &domain.ReportDocument{
		ID:          result.ReportID,
		Params:      generationParams(in),
		PeriodLabel: current.Label,
		GeneratedAt: generatedAt,
		Document:    pdf,
	}
	if err := uc.archive.Save(ctx, doc); err != nil {
		uc.log.Warn("report generated but not archived",
			zap.String("report_id", result.ReportID),
			zap.Error(err),
		)
		result.ArchiveErr = err
	}

	return result, nil
}

func generationParams(in GenerateReportInput) domain.GenerationParams {
	params := domain.GenerationParams{
		PeriodKind:    string(in.Period.Kind),
		Year:          in.Period.Year,
		Unit:          in.Period.Unit,
		Limit:         in.Limit,
		IncludeCharts: in.IncludeCharts,
		OwnerID:       in.OwnerID,
	}
	if in.StoreID != nil {
		params.StoreID = *in.StoreID
	}
	if in.Category != nil {
		params.Category = *in.Category
	}
	return params
}

func filterSummary(in GenerateReportInput) []string {
	var summary []string
	if in.StoreID != nil {
		summary = append(summary, "Store: "+*in.StoreID)
	}
	if in.Category != nil {
		summary = append(summary, "Category: "+*in.Category)
	}
	return summary
}
