// Package reportarchive persists generated report records.
package reportarchive

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mstolarz/astro-advisor/internal/domain/conditions"
	"github.com/mstolarz/astro-advisor/internal/domain/planner"
)

// PostgresArchive implements the planner report archive using pgx.
//
// Expected schema:
//
//	CREATE TABLE reports (
//	    id            UUID PRIMARY KEY,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    model         TEXT NOT NULL,
//	    seeing        TEXT NOT NULL,
//	    prompt_tokens INT NOT NULL,
//	    total_tokens  INT NOT NULL,
//	    latency_ms    BIGINT NOT NULL,
//	    body          TEXT NOT NULL,
//	    prompt_path   TEXT,
//	    report_path   TEXT
//	);
type PostgresArchive struct {
	pool *pgxpool.Pool
}

// NewPostgresArchive constructs the archive.
func NewPostgresArchive(pool *pgxpool.Pool) *PostgresArchive {
	return &PostgresArchive{pool: pool}
}

func (a *PostgresArchive) Save(ctx context.Context, report planner.Report) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO reports (id, created_at, model, seeing, prompt_tokens, total_tokens, latency_ms, body, prompt_path, report_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, report.ID, report.CreatedAt, report.Model, string(report.Seeing),
		report.PromptTokens, report.Usage.TotalTokens, report.LatencyMS,
		report.Text, report.PromptPath, report.ReportPath)
	return err
}

func (a *PostgresArchive) Get(ctx context.Context, id uuid.UUID) (planner.Report, bool, error) {
	row := a.pool.QueryRow(ctx, `
		SELECT id, created_at, model, seeing, prompt_tokens, total_tokens, latency_ms, body, prompt_path, report_path
		FROM reports
		WHERE id = $1
	`, id)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return planner.Report{}, false, nil
		}
		return planner.Report{}, false, err
	}
	return report, true, nil
}

func (a *PostgresArchive) List(ctx context.Context, limit int) ([]planner.Report, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.pool.Query(ctx, `
		SELECT id, created_at, model, seeing, prompt_tokens, total_tokens, latency_ms, body, prompt_path, report_path
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []planner.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (planner.Report, error) {
	var (
		report planner.Report
		seeing string
	)
	if err := row.Scan(&report.ID, &report.CreatedAt, &report.Model, &seeing,
		&report.PromptTokens, &report.Usage.TotalTokens, &report.LatencyMS,
		&report.Text, &report.PromptPath, &report.ReportPath); err != nil {
		return planner.Report{}, err
	}
	report.Seeing = conditions.Seeing(seeing)
	return report, nil
}

var _ planner.Archive = (*PostgresArchive)(nil)
