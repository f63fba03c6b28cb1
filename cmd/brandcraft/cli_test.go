package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/metalagman/brandcraft/internal/brand"
	"github.com/metalagman/brandcraft/internal/config"
	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestInit_WritesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := runCLI(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized")

	cfg, err := config.Load(config.DefaultPath(dir))
	require.NoError(t, err)
	assert.Equal(t, config.ProviderOpenAI, cfg.Provider.Type)

	_, err = brand.LoadInputFile(filepath.Join(dir, config.DirName, sampleInputName))
	require.NoError(t, err)
}

func TestInit_KeepsExistingConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := config.DefaultPath(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`{"provider":{"type":"stub"}}`), 0o644))

	_, err := runCLI(t, "init")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"provider":{"type":"stub"}}`, string(data))
}

func TestGenerate_DryRunStoresReport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	_, err := runCLI(t, "init")
	require.NoError(t, err)
	input := filepath.Join(config.DirName, sampleInputName)

	out, err := runCLI(t, "generate", "--input", input, "--dry-run")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, pipeline.ReportTitle, doc["title"])
	assert.Contains(t, doc, "launch_plan")

	out, err = runCLI(t, "generate", "--input", input, "--dry-run", "--output", "markdown", "--plain")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# "+pipeline.ReportTitle))

	out, err = runCLI(t, "report", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	id := strings.Fields(lines[1])[0]

	out, err = runCLI(t, "report", "show", id, "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "### Week 1")

	out, err = runCLI(t, "runs", "list")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "completed"))

	out, err = runCLI(t, "report", "prune", "--keep-last", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 1 reports")
}

func TestGenerate_InvalidInput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte("full_name: Ada\n"), 0o644))

	_, err := runCLI(t, "generate", "--input", path, "--dry-run")
	require.Error(t, err)
	assert.Equal(t, 2, exitCode(err))
}

func TestGenerate_RejectsUnknownOutput(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "generate", "--input", "x.json", "--output", "html")
	require.ErrorContains(t, err, "unknown --output")
}

func TestReportShow_UnknownID(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runCLI(t, "report", "show", "nope")
	require.ErrorContains(t, err, "report not found")
}

func TestAgents_PrintsDependencyCheck(t *testing.T) {
	out, err := runCLI(t, "agents")
	require.NoError(t, err)
	assert.Contains(t, out, "BrandIdentityAgent")
	assert.Contains(t, out, "LaunchPlanningAgent")
	assert.Contains(t, out, "dependency check: ok")
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "input", err: &brand.InputError{Problems: []string{"x"}}, want: 2},
		{name: "validation", err: &pipeline.StepError{Err: &pipeline.ValidationError{Agent: "A"}}, want: 3},
		{name: "schema", err: &pipeline.StepError{Err: &pipeline.ResponseSchemaError{Agent: "A"}}, want: 4},
		{name: "timeout", err: &pipeline.CompletionProviderError{Timeout: true, Cause: context.DeadlineExceeded}, want: 4},
		{name: "cancelled", err: &pipeline.CancelledError{Cause: context.Canceled}, want: 130},
		{name: "other", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
