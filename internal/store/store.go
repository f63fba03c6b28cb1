// Package store persists FinalReports and the run journal.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/metalagman/brandcraft/internal/pipeline"
)

// ErrNotFound is returned when a report id is unknown.
var ErrNotFound = errors.New("report not found")

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// ReportSummary describes a stored report without its content.
type ReportSummary struct {
	ID        string
	Title     string
	RunID     string
	CreatedAt time.Time
}

// SaveOption configures Save.
type SaveOption func(*saveOptions)

type saveOptions struct {
	runID string
}

// WithRunID links the stored report to the run that produced it.
func WithRunID(id string) SaveOption {
	return func(o *saveOptions) { o.runID = id }
}

func applySaveOptions(opts []SaveOption) saveOptions {
	var o saveOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ReportStore saves and reconstructs reports by generated id.
type ReportStore interface {
	Save(ctx context.Context, report *pipeline.FinalReport, opts ...SaveOption) (string, error)
	Get(ctx context.Context, id string) (*pipeline.FinalReport, error)
	// List returns up to limit summaries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]ReportSummary, error)
	Prune(ctx context.Context, policy RetentionPolicy, dryRun bool) (PruneResult, error)
}

// RetentionPolicy controls report cleanup. Zero values disable a rule; a
// report survives if any enabled rule keeps it.
type RetentionPolicy struct {
	KeepLast int
	KeepDays int
}

// PruneResult summarizes a prune operation.
type PruneResult struct {
	Considered int
	Kept       int
	Deleted    int
}

// keepDecision applies policy to the idx-th newest entry created at createdAt.
func keepDecision(policy RetentionPolicy, idx int, createdAt, cutoff time.Time) bool {
	if policy.KeepLast > 0 && idx < policy.KeepLast {
		return true
	}
	if policy.KeepDays > 0 && createdAt.After(cutoff) {
		return true
	}
	return false
}

func (p RetentionPolicy) enabled() bool {
	return p.KeepLast > 0 || p.KeepDays > 0
}

func (p RetentionPolicy) cutoff(now time.Time) time.Time {
	if p.KeepDays <= 0 {
		return time.Time{}
	}
	return now.Add(-time.Duration(p.KeepDays) * 24 * time.Hour)
}
