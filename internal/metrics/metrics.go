// Package metrics exposes pipeline run metrics in Prometheus format.
package metrics

import (
	"context"
	"fmt"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "brandcraft"

// Recorder counts runs and steps on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	runErrors    *prometheus.CounterVec
	runDuration  prometheus.Histogram
	stepsTotal   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	runsInFlight prometheus.Gauge
}

var _ pipeline.Observer = (*Recorder)(nil)

// New creates a Recorder with a private registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Pipeline runs by final status",
			},
			[]string{"status"},
		),
		runErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "run_errors_total",
				Help:      "Failed runs by agent and error kind",
			},
			[]string{"agent", "kind"},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of finished runs",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
		stepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_total",
				Help:      "Agent steps by outcome",
			},
			[]string{"agent", "outcome"},
		),
		stepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of agent steps",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"agent"},
		),
		runsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "runs_in_flight",
				Help:      "Runs currently executing",
			},
		),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe updates metrics from a run event.
func (r *Recorder) Observe(_ context.Context, ev pipeline.Event) {
	switch ev.Type {
	case pipeline.EventRunStarted:
		r.runsInFlight.Inc()
	case pipeline.EventStepCompleted:
		r.stepsTotal.WithLabelValues(ev.Agent, "completed").Inc()
		r.stepDuration.WithLabelValues(ev.Agent).Observe(ev.Duration.Seconds())
	case pipeline.EventStepFailed:
		r.stepsTotal.WithLabelValues(ev.Agent, "failed").Inc()
		r.stepDuration.WithLabelValues(ev.Agent).Observe(ev.Duration.Seconds())
	case pipeline.EventRunCompleted:
		r.runsInFlight.Dec()
		r.runsTotal.WithLabelValues("completed").Inc()
		r.runDuration.Observe(ev.Duration.Seconds())
	case pipeline.EventRunFailed:
		r.runsInFlight.Dec()
		r.runsTotal.WithLabelValues("failed").Inc()
		r.runErrors.WithLabelValues(ev.Agent, pipeline.ErrorKind(ev.Err)).Inc()
		r.runDuration.Observe(ev.Duration.Seconds())
	}
}

// WriteTextfile writes the current metrics to path in the text exposition
// format, for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
