package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/rs/zerolog/log"
)

// Journal records run lifecycle events in the runs and events tables.
type Journal struct {
	db *sql.DB
}

var _ pipeline.Observer = (*Journal)(nil)

// NewJournal creates a journal on an opened database.
func NewJournal(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// RunRecord is one journaled run.
type RunRecord struct {
	RunID        string
	CreatedAt    time.Time
	Status       string
	AgentsTotal  int
	CurrentAgent string
	Position     int
	Error        string
	ReportID     string
	EndedAt      time.Time
}

// EventRecord is one journaled event of a run.
type EventRecord struct {
	Seq      int
	Time     time.Time
	Type     string
	Message  string
	DataJSON string
}

type eventData struct {
	Agent      string   `json:"agent,omitempty"`
	Position   int      `json:"position,omitempty"`
	Fields     []string `json:"fields,omitempty"`
	Produced   []string `json:"produced,omitempty"`
	DurationMS int64    `json:"duration_ms,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Observe journals ev. Write failures are logged, never returned to the run.
func (j *Journal) Observe(ctx context.Context, ev pipeline.Event) {
	if err := j.record(ctx, ev); err != nil {
		log.Warn().Err(err).Str("run_id", ev.RunID).Str("event", string(ev.Type)).Msg("journal write failed")
	}
}

func (j *Journal) record(ctx context.Context, ev pipeline.Event) error {
	tx, err := j.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin journal: %w", err)
	}
	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	stamp := ts.UTC().Format(timeLayout)

	var stmtErr error
	switch ev.Type {
	case pipeline.EventRunStarted:
		_, stmtErr = tx.ExecContext(ctx, `INSERT INTO runs(run_id, created_at, status, agents_total, position) VALUES(?, ?, ?, ?, 0)`,
			ev.RunID, stamp, "running", ev.Total)
	case pipeline.EventStepStarted:
		_, stmtErr = tx.ExecContext(ctx, `UPDATE runs SET current_agent=?, position=? WHERE run_id=?`,
			ev.Agent, ev.Position, ev.RunID)
	case pipeline.EventRunCompleted:
		_, stmtErr = tx.ExecContext(ctx, `UPDATE runs SET status=?, ended_at=? WHERE run_id=?`,
			"completed", stamp, ev.RunID)
	case pipeline.EventRunFailed:
		_, stmtErr = tx.ExecContext(ctx, `UPDATE runs SET status=?, error=?, ended_at=? WHERE run_id=?`,
			"failed", errString(ev.Err), stamp, ev.RunID)
	}
	if stmtErr != nil {
		_ = tx.Rollback()
		return fmt.Errorf("update run: %w", stmtErr)
	}

	data, err := json.Marshal(eventData{
		Agent:      ev.Agent,
		Position:   ev.Position,
		Fields:     ev.Fields,
		Produced:   ev.Produced,
		DurationMS: ev.Duration.Milliseconds(),
		Error:      errString(ev.Err),
	})
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("encode event: %w", err)
	}
	if err := insertEvent(ctx, tx, ev.RunID, stamp, string(ev.Type), eventMessage(ev), string(data)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit journal: %w", err)
	}
	return nil
}

func eventMessage(ev pipeline.Event) string {
	switch ev.Type {
	case pipeline.EventRunStarted:
		return "run started"
	case pipeline.EventStepStarted:
		return fmt.Sprintf("%s started", ev.Agent)
	case pipeline.EventStepCompleted:
		return fmt.Sprintf("%s completed", ev.Agent)
	case pipeline.EventStepFailed:
		return fmt.Sprintf("%s failed", ev.Agent)
	case pipeline.EventRunCompleted:
		return "run completed"
	case pipeline.EventRunFailed:
		return "run failed"
	default:
		return string(ev.Type)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func insertEvent(ctx context.Context, tx *sql.Tx, runID, ts, typ, message, dataJSON string) error {
	seq, err := nextSeq(ctx, tx, runID)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO events(run_id, seq, ts, type, message, data_json) VALUES(?, ?, ?, ?, ?, ?)`,
		runID, seq, ts, typ, message, nullableString(dataJSON)); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func nextSeq(ctx context.Context, tx *sql.Tx, runID string) (int, error) {
	var seq int
	row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM events WHERE run_id=?`, runID)
	if err := row.Scan(&seq); err != nil {
		return 0, fmt.Errorf("read event seq: %w", err)
	}
	return seq + 1, nil
}

// AttachReport links a completed run to the report saved from it.
func (j *Journal) AttachReport(ctx context.Context, runID, reportID string) error {
	if _, err := j.db.ExecContext(ctx, `UPDATE runs SET report_id=? WHERE run_id=?`, reportID, runID); err != nil {
		return fmt.Errorf("attach report: %w", err)
	}
	return nil
}

// ListRuns returns journaled runs, newest first. limit <= 0 means all.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT run_id, created_at, status, agents_total, COALESCE(current_agent, ''), position,
		COALESCE(error, ''), COALESCE(report_id, ''), COALESCE(ended_at, '')
		FROM runs ORDER BY created_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		var (
			r                  RunRecord
			createdAt, endedAt string
		)
		if err := rows.Scan(&r.RunID, &createdAt, &r.Status, &r.AgentsTotal, &r.CurrentAgent, &r.Position,
			&r.Error, &r.ReportID, &endedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		r.EndedAt = parseTime(endedAt)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Events returns the journaled events of a run in order.
func (j *Journal) Events(ctx context.Context, runID string) ([]EventRecord, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT seq, ts, type, message, COALESCE(data_json, '') FROM events WHERE run_id=? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []EventRecord
	for rows.Next() {
		var (
			ev EventRecord
			ts string
		)
		if err := rows.Scan(&ev.Seq, &ts, &ev.Type, &ev.Message, &ev.DataJSON); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Time = parseTime(ts)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return out, nil
}
