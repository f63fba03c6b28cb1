package logging

import (
	"context"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/rs/zerolog"
)

// PipelineObserver logs run and step transitions.
type PipelineObserver struct {
	logger zerolog.Logger
}

// NewPipelineObserver returns an observer writing to logger.
func NewPipelineObserver(logger zerolog.Logger) *PipelineObserver {
	return &PipelineObserver{logger: logger}
}

// Observe implements pipeline.Observer.
func (o *PipelineObserver) Observe(_ context.Context, ev pipeline.Event) {
	l := o.logger.With().Str("run_id", ev.RunID).Logger()
	switch ev.Type {
	case pipeline.EventRunStarted:
		l.Info().Int("agents", ev.Total).Int("fields", len(ev.Fields)).Msg("pipeline started")
	case pipeline.EventStepStarted:
		l.Debug().
			Str("agent", ev.Agent).
			Int("position", ev.Position).
			Int("total", ev.Total).
			Msg("agent started")
	case pipeline.EventStepCompleted:
		l.Info().
			Str("agent", ev.Agent).
			Int("position", ev.Position).
			Strs("produced", ev.Produced).
			Dur("duration", ev.Duration).
			Msg("agent completed")
	case pipeline.EventStepFailed:
		l.Error().
			Err(ev.Err).
			Str("agent", ev.Agent).
			Int("position", ev.Position).
			Strs("fields", ev.Fields).
			Dur("duration", ev.Duration).
			Msg("agent failed")
	case pipeline.EventRunCompleted:
		l.Info().Dur("duration", ev.Duration).Msg("pipeline completed")
	case pipeline.EventRunFailed:
		l.Warn().Err(ev.Err).Str("agent", ev.Agent).Dur("duration", ev.Duration).Msg("pipeline failed")
	}
}
