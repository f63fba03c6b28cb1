package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/metalagman/brandcraft/internal/pipeline"
)

// SQLiteReports stores reports in the reports table.
type SQLiteReports struct {
	db  *sql.DB
	now func() time.Time
}

var _ ReportStore = (*SQLiteReports)(nil)

// NewSQLiteReports creates a report store on an opened database.
func NewSQLiteReports(db *sql.DB) *SQLiteReports {
	return &SQLiteReports{db: db, now: time.Now}
}

// Save stores report under a new id.
func (s *SQLiteReports) Save(ctx context.Context, report *pipeline.FinalReport, opts ...SaveOption) (string, error) {
	data, err := EncodeReport(report)
	if err != nil {
		return "", err
	}
	o := applySaveOptions(opts)
	id := uuid.NewString()
	createdAt := s.now().UTC().Format(timeLayout)
	if _, err := s.db.ExecContext(ctx, `INSERT INTO reports(id, created_at, title, run_id, report_json) VALUES(?, ?, ?, ?, ?)`,
		id, createdAt, report.Title, nullableString(o.runID), string(data)); err != nil {
		return "", fmt.Errorf("insert report: %w", err)
	}
	return id, nil
}

// Get loads the report stored under id.
func (s *SQLiteReports) Get(ctx context.Context, id string) (*pipeline.FinalReport, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report_json FROM reports WHERE id=?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return DecodeReport([]byte(data))
}

// List returns report summaries, newest first.
func (s *SQLiteReports) List(ctx context.Context, limit int) ([]ReportSummary, error) {
	query := `SELECT id, title, COALESCE(run_id, ''), created_at FROM reports ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ReportSummary
	for rows.Next() {
		var (
			sum       ReportSummary
			createdAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.RunID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		sum.CreatedAt = parseTime(createdAt)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

// Prune removes reports outside the retention policy together with the
// journal of the runs that produced them.
func (s *SQLiteReports) Prune(ctx context.Context, policy RetentionPolicy, dryRun bool) (PruneResult, error) {
	if !policy.enabled() {
		return PruneResult{}, nil
	}
	all, err := s.List(ctx, 0)
	if err != nil {
		return PruneResult{}, err
	}

	res := PruneResult{Considered: len(all)}
	cutoff := policy.cutoff(s.now().UTC())
	var doomed []ReportSummary
	for i, r := range all {
		if keepDecision(policy, i, r.CreatedAt, cutoff) {
			res.Kept++
			continue
		}
		doomed = append(doomed, r)
	}
	if dryRun || len(doomed) == 0 {
		res.Deleted = len(doomed)
		return res, nil
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return res, fmt.Errorf("begin prune: %w", err)
	}
	for _, r := range doomed {
		if _, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE id=?`, r.ID); err != nil {
			_ = tx.Rollback()
			return res, fmt.Errorf("delete report %s: %w", r.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE report_id=?`, r.ID); err != nil {
			_ = tx.Rollback()
			return res, fmt.Errorf("delete run of report %s: %w", r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("commit prune: %w", err)
	}
	res.Deleted = len(doomed)
	return res, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
