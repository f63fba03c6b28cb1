package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/metalagman/brandcraft/internal/brand"
	"github.com/metalagman/brandcraft/internal/config"
	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.Path = filepath.Join(dir, "brandcraft.db")
	cfg.Metrics.Textfile = filepath.Join(dir, "brandcraft.prom")
	if mutate != nil {
		mutate(&cfg)
	}

	a, err := New(context.Background(), Params{Config: cfg, DryRun: true})
	require.NoError(t, err)
	return a
}

func sampleInput(t *testing.T) brand.Input {
	t.Helper()
	in, err := brand.ParseInput(brand.SampleInput())
	require.NoError(t, err)
	return in
}

func TestService_GenerateStoresReport(t *testing.T) {
	ctx := context.Background()
	a := testApp(t, nil)
	t.Cleanup(func() { _ = a.Close(ctx) })

	out, err := a.Generate(ctx, sampleInput(t))
	require.NoError(t, err)
	require.NotEmpty(t, out.RunID)
	require.NotEmpty(t, out.ReportID)
	require.True(t, out.Report.Complete())

	got, err := a.Report(ctx, out.ReportID)
	require.NoError(t, err)
	assert.Equal(t, out.Report.BrandIdentity["brand_slogan"], got.BrandIdentity["brand_slogan"])

	reports, err := a.Reports(ctx, 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, out.RunID, reports[0].RunID)

	runs, err := a.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "completed", runs[0].Status)
	assert.Equal(t, out.ReportID, runs[0].ReportID)
	assert.Equal(t, 5, runs[0].AgentsTotal)

	events, err := a.Events(ctx, out.RunID)
	require.NoError(t, err)
	// run_started, five started/completed pairs, run_completed
	assert.Len(t, events, 12)
}

func TestService_CancelledRunIsJournaled(t *testing.T) {
	a := testApp(t, nil)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := a.Generate(ctx, sampleInput(t))
	require.Error(t, err)
	assert.Equal(t, "cancelled", pipeline.ErrorKind(err))
	assert.Nil(t, out.Report)

	runs, err := a.Runs(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, out.RunID, runs[0].RunID)
	assert.Equal(t, "failed", runs[0].Status)

	reports, err := a.Reports(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestService_PruneUsesRetention(t *testing.T) {
	ctx := context.Background()
	a := testApp(t, func(cfg *config.Config) {
		cfg.Retention.KeepLast = 1
		cfg.Retention.KeepDays = 0
	})
	t.Cleanup(func() { _ = a.Close(ctx) })

	for range 3 {
		_, err := a.Generate(ctx, sampleInput(t))
		require.NoError(t, err)
	}

	res, err := a.Prune(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Deleted)

	reports, err := a.Reports(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestService_Agents(t *testing.T) {
	a := testApp(t, nil)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	var names []string
	for _, d := range a.Agents() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		"BrandIdentityAgent",
		"UniqueStrengthsAgent",
		"TargetAudienceAgent",
		"ContentStrategyAgent",
		"LaunchPlanningAgent",
	}, names)
}

func TestApp_CloseWritesMetrics(t *testing.T) {
	ctx := context.Background()
	var textfile string
	a := testApp(t, func(cfg *config.Config) { textfile = cfg.Metrics.Textfile })

	_, err := a.Generate(ctx, sampleInput(t))
	require.NoError(t, err)
	require.NoError(t, a.Close(ctx))

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `brandcraft_runs_total{status="completed"} 1`)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "brandcraft.db")
	cfg.Retry.MaxAttempts = 0

	_, err := New(context.Background(), Params{Config: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry.max_attempts")
}
