package fiber

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/avast/retry-go/v5"
	"github.com/gofiber/fiber/v2"

	adomain "activity-report-service/internal/analytics/core/domain"
	aggregate "activity-report-service/internal/analytics/core/usecase"
	"activity-report-service/internal/report/core/domain"
	"activity-report-service/internal/report/core/ports"
	"activity-report-service/internal/report/core/usecase"
)

const defaultListLimit = 20

type GenerateReportUseCase interface {
	Execute(ctx context.Context, in usecase.GenerateReportInput) (*usecase.GenerateReportResult, error)
}

type ReportArchive interface {
	Get(ctx context.Context, id string) (*domain.ReportDocument, error)
	List(ctx context.Context, limit int, scope ports.ListScope) ([]domain.ReportSummary, error)
}

type ReportHandler struct {
	generateUC GenerateReportUseCase
	archive    ReportArchive
}

func NewReportHandler(generateUC GenerateReportUseCase, archive ReportArchive) *ReportHandler {
	return &ReportHandler{generateUC: generateUC, archive: archive}
}

// GenerateReport godoc
// @Summary Generate an activity report
// @Description Aggregates the requested period and its prior equivalent, renders the document and archives it
// @Tags Reports
// @Accept json
// @Produce json
// @Param X-Owner-ID header string false "Requesting user id"
// @Param request body GenerateReportRequest true "Report parameters"
// @Success 201 {object} GenerateReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) GenerateReport(c *fiber.Ctx) error {
	var req GenerateReportRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid_json",
		})
	}

	includeCharts := true
	if req.IncludeCharts != nil {
		includeCharts = *req.IncludeCharts
	}

	input := usecase.GenerateReportInput{
		Period: adomain.PeriodSpec{
			Kind: adomain.PeriodKind(req.PeriodKind),
			Year: req.Year,
			Unit: req.Unit,
		},
		StoreID:       req.StoreID,
		Category:      req.Category,
		Limit:         req.Limit,
		IncludeCharts: includeCharts,
		OwnerID:       c.Get("X-Owner-ID"),
	}

	// Transient store failures get one extra attempt before the request fails.
	// Configuration errors never retry.
	var result *usecase.GenerateReportResult
	r := retry.New(
		retry.Context(c.UserContext()),
		retry.Attempts(2),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var dsErr *aggregate.DataSourceError
			return errors.As(err, &dsErr)
		}),
	)
	err := r.Do(func() error {
		var execErr error
		result, execErr = h.generateUC.Execute(c.UserContext(), input)
		return execErr
	})
	if err != nil {
		var dsErr *aggregate.DataSourceError
		switch {
		case errors.Is(err, adomain.ErrInvalidPeriod),
			errors.Is(err, aggregate.ErrInvalidLimit):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_period",
				Message: err.Error(),
			})
		case errors.As(err, &dsErr):
			return c.Status(http.StatusBadGateway).JSON(ErrorResponse{
				Error:   "data_source_unavailable",
				Message: dsErr.Error(),
			})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	resp := GenerateReportResponse{
		ReportID:    result.ReportID,
		PeriodLabel: result.PeriodLabel,
		GeneratedAt: result.GeneratedAt,
		Archived:    result.ArchiveErr == nil,
	}
	if result.ArchiveErr != nil {
		resp.ArchiveError = result.ArchiveErr.Error()
	}
	return c.Status(http.StatusCreated).JSON(resp)
}

// ListReports godoc
// @Summary List archived reports
// @Description Returns report metadata scoped to the requesting owner unless the privileged header is set
// @Tags Reports
// @Produce json
// @Param X-Owner-ID header string false "Requesting user id"
// @Param X-Admin header string false "Set to true for unscoped listing"
// @Param limit query int false "Maximum entries" default(20)
// @Success 200 {object} ListReportsResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) ListReports(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit <= 0 {
		limit = defaultListLimit
	}

	scope := ports.ListScope{
		OwnerID: c.Get("X-Owner-ID"),
		All:     c.Get("X-Admin") == "true",
	}

	summaries, err := h.archive.List(c.UserContext(), limit, scope)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	resp := ListReportsResponse{Reports: make([]ReportSummaryResponse, len(summaries))}
	for i, s := range summaries {
		resp.Reports[i] = ReportSummaryResponse{
			ReportID:    s.ID,
			PeriodLabel: s.PeriodLabel,
			PeriodKind:  s.Params.PeriodKind,
			Year:        s.Params.Year,
			Unit:        s.Params.Unit,
			OwnerID:     s.Params.OwnerID,
			GeneratedAt: s.GeneratedAt,
		}
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// GetReport godoc
// @Summary Get report metadata
// @Tags Reports
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} ReportSummaryResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/{id} [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	doc, err := h.archive.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ports.ErrReportNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Error: "report_not_found",
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	return c.Status(http.StatusOK).JSON(ReportSummaryResponse{
		ReportID:    doc.ID,
		PeriodLabel: doc.PeriodLabel,
		PeriodKind:  doc.Params.PeriodKind,
		Year:        doc.Params.Year,
		Unit:        doc.Params.Unit,
		OwnerID:     doc.Params.OwnerID,
		GeneratedAt: doc.GeneratedAt,
	})
}

// DownloadReport godoc
// @Summary Download a report document
// @Tags Reports
// @Produce application/pdf
// @Param id path string true "Report id"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/{id}/document [get]
func (h *ReportHandler) DownloadReport(c *fiber.Ctx) error {
	doc, err := h.archive.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ports.ErrReportNotFound) {
			return c.Status(http.StatusNotFound).JSON(ErrorResponse{
				Error: "report_not_found",
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="report-`+doc.ID+`.pdf"`)
	return c.Status(http.StatusOK).Send(doc.Document)
}
