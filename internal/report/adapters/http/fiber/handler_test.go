package fiber

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	adomain "activity-report-service/internal/analytics/core/domain"
	aggregate "activity-report-service/internal/analytics/core/usecase"
	"activity-report-service/internal/report/core/domain"
	"activity-report-service/internal/report/core/ports"
	"activity-report-service/internal/report/core/usecase"
)

type fakeGenerateUseCase struct {
	ExecuteFunc func(ctx context.Context, in usecase.GenerateReportInput) (*usecase.GenerateReportResult, error)

	CallCount int
	LastInput usecase.GenerateReportInput
}

func (f *fakeGenerateUseCase) Execute(ctx context.Context, in usecase.GenerateReportInput) (*usecase.GenerateReportResult, error) {
	f.CallCount++
	f.LastInput = in
	if f.ExecuteFunc != nil {
		return f.ExecuteFunc(ctx, in)
	}
	return &usecase.GenerateReportResult{
		ReportID:    "r1",
		PeriodLabel: "March 2025",
		GeneratedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
		Document:    []byte("%PDF-fake"),
	}, nil
}

type fakeReportArchive struct {
	GetFunc  func(ctx context.Context, id string) (*domain.ReportDocument, error)
	ListFunc func(ctx context.Context, limit int, scope ports.ListScope) ([]domain.ReportSummary, error)

	LastListLimit int
	LastListScope ports.ListScope
}

func (f *fakeReportArchive) Get(ctx context.Context, id string) (*domain.ReportDocument, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, id)
	}
	return nil, ports.ErrReportNotFound
}

func (f *fakeReportArchive) List(ctx context.Context, limit int, scope ports.ListScope) ([]domain.ReportSummary, error) {
	f.LastListLimit = limit
	f.LastListScope = scope
	if f.ListFunc != nil {
		return f.ListFunc(ctx, limit, scope)
	}
	return nil, nil
}

// helper: create fiber app and routes
func setupTestApp(uc GenerateReportUseCase, archive ReportArchive) *fiber.App {
	app := fiber.New()
	h := NewReportHandler(uc, archive)

	app.Post("/reports", h.GenerateReport)
	app.Get("/reports", h.ListReports)
	app.Get("/reports/:id", h.GetReport)
	app.Get("/reports/:id/document", h.DownloadReport)

	return app
}

// helper: send request
func doRequest(t *testing.T, app *fiber.App, method, path string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		buf = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

func monthlyRequest() GenerateReportRequest {
	return GenerateReportRequest{
		PeriodKind: "monthly",
		Year:       2025,
		Unit:       3,
	}
}

func TestGenerateReport_Success(t *testing.T) {
	fakeUC := &fakeGenerateUseCase{}
	app := setupTestApp(fakeUC, &fakeReportArchive{})

	resp, body := doRequest(t, app, http.MethodPost, "/reports", monthlyRequest(),
		map[string]string{"X-Owner-ID": "u1"})

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusCreated, resp.StatusCode, string(body))
	}

	var respJSON GenerateReportResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}

	if respJSON.ReportID != "r1" || respJSON.PeriodLabel != "March 2025" {
		t.Errorf("unexpected response: %+v", respJSON)
	}
	if !respJSON.Archived {
		t.Error("expected archived=true")
	}

	if fakeUC.LastInput.OwnerID != "u1" {
		t.Errorf("owner header not propagated: %q", fakeUC.LastInput.OwnerID)
	}
	if !fakeUC.LastInput.IncludeCharts {
		t.Error("charts must default to enabled")
	}
}

func TestGenerateReport_InvalidJSON(t *testing.T) {
	app := setupTestApp(&fakeGenerateUseCase{}, &fakeReportArchive{})

	req := httptest.NewRequest(http.MethodPost, "/reports", bytes.NewBufferString(`{"period_kind":`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

func TestGenerateReport_InvalidPeriodNeverRetries(t *testing.T) {
	fakeUC := &fakeGenerateUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.GenerateReportInput) (*usecase.GenerateReportResult, error) {
			return nil, adomain.ErrInvalidPeriod
		},
	}
	app := setupTestApp(fakeUC, &fakeReportArchive{})

	resp, body := doRequest(t, app, http.MethodPost, "/reports", monthlyRequest(), nil)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadRequest, resp.StatusCode, string(body))
	}

	var respJSON map[string]any
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON["error"] != "invalid_period" {
		t.Errorf("expected error=invalid_period, got %v", respJSON["error"])
	}
	if fakeUC.CallCount != 1 {
		t.Errorf("configuration errors must not retry, got %d calls", fakeUC.CallCount)
	}
}

func TestGenerateReport_DataSourceErrorRetriesOnce(t *testing.T) {
	fakeUC := &fakeGenerateUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.GenerateReportInput) (*usecase.GenerateReportResult, error) {
			return nil, &aggregate.DataSourceError{Query: "search_events", Err: errors.New("timeout")}
		},
	}
	app := setupTestApp(fakeUC, &fakeReportArchive{})

	resp, body := doRequest(t, app, http.MethodPost, "/reports", monthlyRequest(), nil)

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadGateway, resp.StatusCode, string(body))
	}

	var respJSON map[string]any
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON["error"] != "data_source_unavailable" {
		t.Errorf("expected error=data_source_unavailable, got %v", respJSON["error"])
	}
	if fakeUC.CallCount != 2 {
		t.Errorf("expected exactly one retry, got %d calls", fakeUC.CallCount)
	}
}

func TestGenerateReport_RetrySucceedsSecondAttempt(t *testing.T) {
	attempts := 0
	fakeUC := &fakeGenerateUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.GenerateReportInput) (*usecase.GenerateReportResult, error) {
			attempts++
			if attempts == 1 {
				return nil, &aggregate.DataSourceError{Query: "view_events", Err: errors.New("timeout")}
			}
			return &usecase.GenerateReportResult{
				ReportID:    "r2",
				PeriodLabel: "March 2025",
				GeneratedAt: time.Now().UTC(),
				Document:    []byte("%PDF-fake"),
			}, nil
		},
	}
	app := setupTestApp(fakeUC, &fakeReportArchive{})

	resp, body := doRequest(t, app, http.MethodPost, "/reports", monthlyRequest(), nil)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusCreated, resp.StatusCode, string(body))
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestGenerateReport_ArchiveFailureReported(t *testing.T) {
	fakeUC := &fakeGenerateUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.GenerateReportInput) (*usecase.GenerateReportResult, error) {
			return &usecase.GenerateReportResult{
				ReportID:    "r1",
				PeriodLabel: "March 2025",
				GeneratedAt: time.Now().UTC(),
				Document:    []byte("%PDF-fake"),
				ArchiveErr:  errors.New("disk full"),
			}, nil
		},
	}
	app := setupTestApp(fakeUC, &fakeReportArchive{})

	resp, body := doRequest(t, app, http.MethodPost, "/reports", monthlyRequest(), nil)

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusCreated, resp.StatusCode, string(body))
	}

	var respJSON GenerateReportResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON.Archived {
		t.Error("expected archived=false")
	}
	if respJSON.ArchiveError != "disk full" {
		t.Errorf("expected archive error in response, got %q", respJSON.ArchiveError)
	}
}

func TestGenerateReport_InternalError(t *testing.T) {
	fakeUC := &fakeGenerateUseCase{
		ExecuteFunc: func(ctx context.Context, in usecase.GenerateReportInput) (*usecase.GenerateReportResult, error) {
			return nil, errors.New("render failed")
		},
	}
	app := setupTestApp(fakeUC, &fakeReportArchive{})

	resp, body := doRequest(t, app, http.MethodPost, "/reports", monthlyRequest(), nil)

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusInternalServerError, resp.StatusCode, string(body))
	}
	if fakeUC.CallCount != 1 {
		t.Errorf("unexpected retries on non-transient errors: %d calls", fakeUC.CallCount)
	}
}

// ---- List tests ----

func TestListReports_ScopedToOwner(t *testing.T) {
	archive := &fakeReportArchive{
		ListFunc: func(ctx context.Context, limit int, scope ports.ListScope) ([]domain.ReportSummary, error) {
			return []domain.ReportSummary{
				{
					ID:          "r1",
					Params:      domain.GenerationParams{PeriodKind: "monthly", Year: 2025, Unit: 3, OwnerID: "u1"},
					PeriodLabel: "March 2025",
					GeneratedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	app := setupTestApp(&fakeGenerateUseCase{}, archive)

	resp, body := doRequest(t, app, http.MethodGet, "/reports?limit=5", nil,
		map[string]string{"X-Owner-ID": "u1"})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, resp.StatusCode, string(body))
	}

	if archive.LastListScope.OwnerID != "u1" || archive.LastListScope.All {
		t.Errorf("unexpected scope: %+v", archive.LastListScope)
	}
	if archive.LastListLimit != 5 {
		t.Errorf("expected limit=5, got %d", archive.LastListLimit)
	}

	var respJSON ListReportsResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if len(respJSON.Reports) != 1 || respJSON.Reports[0].ReportID != "r1" {
		t.Errorf("unexpected list: %+v", respJSON.Reports)
	}
}

func TestListReports_PrivilegedUnscoped(t *testing.T) {
	archive := &fakeReportArchive{}
	app := setupTestApp(&fakeGenerateUseCase{}, archive)

	resp, _ := doRequest(t, app, http.MethodGet, "/reports", nil,
		map[string]string{"X-Owner-ID": "u1", "X-Admin": "true"})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if !archive.LastListScope.All {
		t.Error("privileged header must lift the owner scope")
	}
	if archive.LastListLimit != defaultListLimit {
		t.Errorf("expected default limit, got %d", archive.LastListLimit)
	}
}

// ---- Get / download tests ----

func TestGetReport_NotFound(t *testing.T) {
	app := setupTestApp(&fakeGenerateUseCase{}, &fakeReportArchive{})

	resp, body := doRequest(t, app, http.MethodGet, "/reports/missing", nil, nil)

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusNotFound, resp.StatusCode, string(body))
	}

	var respJSON map[string]any
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON["error"] != "report_not_found" {
		t.Errorf("expected error=report_not_found, got %v", respJSON["error"])
	}
}

func TestGetReport_Metadata(t *testing.T) {
	archive := &fakeReportArchive{
		GetFunc: func(ctx context.Context, id string) (*domain.ReportDocument, error) {
			return &domain.ReportDocument{
				ID:          id,
				Params:      domain.GenerationParams{PeriodKind: "quarterly", Year: 2025, Unit: 1, OwnerID: "u1"},
				PeriodLabel: "Q1 2025",
				GeneratedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
				Document:    []byte("%PDF-fake"),
			}, nil
		},
	}
	app := setupTestApp(&fakeGenerateUseCase{}, archive)

	resp, body := doRequest(t, app, http.MethodGet, "/reports/r1", nil, nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, resp.StatusCode, string(body))
	}

	var respJSON ReportSummaryResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if respJSON.ReportID != "r1" || respJSON.PeriodKind != "quarterly" {
		t.Errorf("unexpected metadata: %+v", respJSON)
	}
}

func TestDownloadReport_ServesDocument(t *testing.T) {
	archive := &fakeReportArchive{
		GetFunc: func(ctx context.Context, id string) (*domain.ReportDocument, error) {
			return &domain.ReportDocument{
				ID:       id,
				Document: []byte("%PDF-1.4 fake"),
			}, nil
		},
	}
	app := setupTestApp(&fakeGenerateUseCase{}, archive)

	resp, body := doRequest(t, app, http.MethodGet, "/reports/r1/document", nil, nil)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(body, []byte("%PDF-")) {
		t.Errorf("expected document bytes, got %q", body)
	}
}

func TestDownloadReport_NotFound(t *testing.T) {
	app := setupTestApp(&fakeGenerateUseCase{}, &fakeReportArchive{})

	resp, _ := doRequest(t, app, http.MethodGet, "/reports/missing/document", nil, nil)

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}
