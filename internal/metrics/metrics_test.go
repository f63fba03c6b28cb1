package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_CountsRuns(t *testing.T) {
	t.Parallel()

	r := New()
	ctx := context.Background()

	r.Observe(ctx, pipeline.Event{Type: pipeline.EventRunStarted})
	assert.InDelta(t, 1, testutil.ToFloat64(r.runsInFlight), 0)
	r.Observe(ctx, pipeline.Event{Type: pipeline.EventStepCompleted, Agent: "A", Duration: time.Second})
	r.Observe(ctx, pipeline.Event{Type: pipeline.EventRunCompleted, Duration: time.Second})

	r.Observe(ctx, pipeline.Event{Type: pipeline.EventRunStarted})
	failure := &pipeline.StepError{Agent: "B", Position: 2, Total: 2, Err: &pipeline.ValidationError{Agent: "B"}}
	r.Observe(ctx, pipeline.Event{Type: pipeline.EventStepFailed, Agent: "B", Err: failure.Err})
	r.Observe(ctx, pipeline.Event{Type: pipeline.EventRunFailed, Agent: "B", Err: failure})

	assert.InDelta(t, 1, testutil.ToFloat64(r.runsTotal.WithLabelValues("completed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.runsTotal.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.stepsTotal.WithLabelValues("A", "completed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.stepsTotal.WithLabelValues("B", "failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(r.runErrors.WithLabelValues("B", "validation")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(r.runsInFlight), 0)
}

func TestRecorder_PrivateRegistries(t *testing.T) {
	t.Parallel()

	a, b := New(), New()
	a.Observe(context.Background(), pipeline.Event{Type: pipeline.EventRunFailed, Agent: "A", Err: errors.New("x")})

	assert.InDelta(t, 1, testutil.ToFloat64(a.runsTotal.WithLabelValues("failed")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.runsTotal.WithLabelValues("failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.runErrors.WithLabelValues("A", "unknown")), 0)
}

func TestRecorder_WriteTextfile(t *testing.T) {
	t.Parallel()

	r := New()
	r.Observe(context.Background(), pipeline.Event{Type: pipeline.EventRunCompleted, Duration: 3 * time.Second})

	path := filepath.Join(t.TempDir(), "brandcraft.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `brandcraft_runs_total{status="completed"} 1`)
	assert.Contains(t, string(data), "brandcraft_run_duration_seconds_count 1")
}
