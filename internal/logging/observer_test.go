package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineObserver(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	obs := NewPipelineObserver(zerolog.New(&buf).Level(zerolog.InfoLevel))

	obs.Observe(context.Background(), pipeline.Event{RunID: "r1", Type: pipeline.EventStepStarted, Agent: "A"})
	obs.Observe(context.Background(), pipeline.Event{
		RunID:    "r1",
		Type:     pipeline.EventStepCompleted,
		Agent:    "A",
		Position: 1,
		Produced: []string{"brand_title"},
		Duration: time.Second,
	})
	obs.Observe(context.Background(), pipeline.Event{
		RunID: "r1",
		Type:  pipeline.EventStepFailed,
		Agent: "B",
		Err:   errors.New("boom"),
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "debug events must be filtered at info level")

	var completed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &completed))
	assert.Equal(t, "r1", completed["run_id"])
	assert.Equal(t, "A", completed["agent"])
	assert.Equal(t, "agent completed", completed["message"])
	assert.Equal(t, []any{"brand_title"}, completed["produced"])

	var failed map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failed))
	assert.Equal(t, "error", failed["level"])
	assert.Equal(t, "boom", failed["error"])
}
