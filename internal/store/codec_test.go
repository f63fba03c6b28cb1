package store

import (
	"testing"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReport_RestoresNumbers(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.ContentStrategy["posting_ratio"] = 0.5

	data, err := EncodeReport(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"brand_identity"`)

	got, err := DecodeReport(data)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.ContentStrategy["posting_ratio"])
	week := got.LaunchPlan["launch_schedule"].([]any)[0].(map[string]any)
	assert.Equal(t, 1, week["week_number"])
	assert.True(t, got.Complete())
}

func TestEncodeReport_Nil(t *testing.T) {
	t.Parallel()

	_, err := EncodeReport(nil)
	require.Error(t, err)
}

func TestDecodeReport_Invalid(t *testing.T) {
	t.Parallel()

	_, err := DecodeReport([]byte("{"))
	require.Error(t, err)
}

func TestDecodeReport_MissingSectionStaysNil(t *testing.T) {
	t.Parallel()

	got, err := DecodeReport([]byte(`{"title":"t","brand_identity":{"brand_voice":"v"}}`))
	require.NoError(t, err)
	assert.Equal(t, pipeline.Result{"brand_voice": "v"}, got.BrandIdentity)
	assert.Nil(t, got.LaunchPlan)
	assert.False(t, got.Complete())
}
