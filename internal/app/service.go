package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/metalagman/brandcraft/internal/brand"
	"github.com/metalagman/brandcraft/internal/config"
	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/metalagman/brandcraft/internal/store"
	"github.com/rs/zerolog/log"
)

// Service runs the brand pipeline and manages stored reports.
type Service struct {
	cfg          config.Config
	orchestrator *pipeline.Orchestrator
	reports      store.ReportStore
	journal      *store.Journal
}

func newService(
	cfg config.Config,
	orchestrator *pipeline.Orchestrator,
	reports store.ReportStore,
	journal *store.Journal,
) *Service {
	return &Service{cfg: cfg, orchestrator: orchestrator, reports: reports, journal: journal}
}

// Generated is the outcome of a successful Generate.
type Generated struct {
	RunID    string
	ReportID string
	Report   *pipeline.FinalReport
}

// Generate runs the pipeline on input and stores the report. On failure the
// returned Generated still carries the run id so the journal can be found.
func (s *Service) Generate(ctx context.Context, input brand.Input) (Generated, error) {
	out := Generated{RunID: uuid.NewString()}
	ctx = pipeline.ContextWithRunID(ctx, out.RunID)

	report, err := s.orchestrator.Run(ctx, input.Fields())
	if err != nil {
		return out, err
	}
	out.Report = report

	id, err := s.reports.Save(ctx, report, store.WithRunID(out.RunID))
	if err != nil {
		return out, fmt.Errorf("save report: %w", err)
	}
	out.ReportID = id
	if err := s.journal.AttachReport(ctx, out.RunID, id); err != nil {
		log.Warn().Err(err).Str("run_id", out.RunID).Msg("link report to run")
	}
	return out, nil
}

// Report loads a stored report.
func (s *Service) Report(ctx context.Context, id string) (*pipeline.FinalReport, error) {
	return s.reports.Get(ctx, id)
}

// Reports lists stored reports, newest first.
func (s *Service) Reports(ctx context.Context, limit int) ([]store.ReportSummary, error) {
	return s.reports.List(ctx, limit)
}

// Prune applies the configured retention policy.
func (s *Service) Prune(ctx context.Context, dryRun bool) (store.PruneResult, error) {
	return s.reports.Prune(ctx, store.RetentionPolicy{
		KeepLast: s.cfg.Retention.KeepLast,
		KeepDays: s.cfg.Retention.KeepDays,
	}, dryRun)
}

// Runs lists journaled runs, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]store.RunRecord, error) {
	return s.journal.ListRuns(ctx, limit)
}

// Events lists the journaled events of a run.
func (s *Service) Events(ctx context.Context, runID string) ([]store.EventRecord, error) {
	return s.journal.Events(ctx, runID)
}

// Agents describes the registered pipeline in execution order.
func (s *Service) Agents() []pipeline.Descriptor {
	return s.orchestrator.Descriptors()
}
