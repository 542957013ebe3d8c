package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"activity-report-service/internal/report/core/domain"
	"activity-report-service/internal/report/core/ports"
)

type RowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (RowScanner, error)
}

// ArchiveRepository persists finished reports as opaque records keyed by id.
type ArchiveRepository struct {
	db DB
}

func NewArchiveRepository(db DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

var _ ports.ReportArchivePort = (*ArchiveRepository)(nil)

const insertReportSQL = `
INSERT INTO reports (
    id,
    params,
    period_label,
    document,
    generated_at,
    owner_id
) VALUES (
    $1, $2, $3, $4, $5, $6
);
`

func (r *ArchiveRepository) Save(ctx context.Context, doc *domain.ReportDocument) error {
	paramsJSON, err := json.Marshal(doc.Params)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, insertReportSQL,
		doc.ID,
		paramsJSON,
		doc.PeriodLabel,
		doc.Document,
		doc.GeneratedAt,
		doc.Params.OwnerID,
	)
	return err
}

const selectReportSQL = `
SELECT params, period_label, document, generated_at
FROM reports
WHERE id = $1`

func (r *ArchiveRepository) Get(ctx context.Context, id string) (*domain.ReportDocument, error) {
	rows, err := r.db.QueryContext(ctx, selectReportSQL, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ports.ErrReportNotFound
	}

	var (
		paramsJSON []byte
		doc        = domain.ReportDocument{ID: id}
	)
	if err := rows.Scan(&paramsJSON, &doc.PeriodLabel, &doc.Document, &doc.GeneratedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(paramsJSON, &doc.Params); err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &doc, nil
}

const listReportsSQL = `
SELECT id, params, period_label, generated_at
FROM reports`

func (r *ArchiveRepository) List(ctx context.Context, limit int, scope ports.ListScope) ([]domain.ReportSummary, error) {
	query := listReportsSQL
	var args []any

	if !scope.All {
		query += " WHERE owner_id = $1"
		args = append(args, scope.OwnerID)
	}
	query += " ORDER BY generated_at DESC"
	if limit > 0 {
		args = append(args, limit)
		if scope.All {
			query += " LIMIT $1"
		} else {
			query += " LIMIT $2"
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []domain.ReportSummary
	for rows.Next() {
		var (
			paramsJSON []byte
			s          domain.ReportSummary
			at         time.Time
		)
		if err := rows.Scan(&s.ID, &paramsJSON, &s.PeriodLabel, &at); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(paramsJSON, &s.Params); err != nil {
			return nil, err
		}
		s.GeneratedAt = at.UTC()
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
