package brand

import (
	"context"
	"testing"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noopProvider = pipeline.CompletionProviderFunc(func(ctx context.Context, req pipeline.CompletionRequest) (map[string]any, error) {
	return nil, nil
})

func TestDescriptors_Table(t *testing.T) {
	t.Parallel()

	descs := Descriptors()
	require.Len(t, descs, 5)

	want := []struct {
		name     string
		section  pipeline.Section
		required []string
		outputs  []string
	}{
		{
			name:     BrandIdentityAgent,
			section:  pipeline.SectionBrandIdentity,
			required: []string{"basic_identity", "branding_goal", "style_tone", "industry_focus"},
			outputs:  []string{"brand_title", "brand_slogan", "core_values"},
		},
		{
			name:     UniqueStrengthsAgent,
			section:  pipeline.SectionUniqueStrengths,
			required: []string{"basic_identity", "experience_level", "personal_story_highlights", "brand_title"},
			outputs:  []string{"unique_strengths", "personal_story"},
		},
		{
			name:     TargetAudienceAgent,
			section:  pipeline.SectionTargetAudience,
			required: []string{"branding_goal", "industry_focus", "brand_title", "unique_strengths"},
			outputs:  []string{"target_audience_profile", "audience_interests"},
		},
		{
			name:    ContentStrategyAgent,
			section: pipeline.SectionContentStrategy,
			required: []string{
				"content_format_preference", "preferred_platforms", "target_language",
				"target_audience_profile", "audience_interests", "brand_title",
			},
			outputs: []string{"recommended_platforms", "content_themes", "content_formats"},
		},
		{
			name:     LaunchPlanningAgent,
			section:  pipeline.SectionLaunchPlan,
			required: []string{"recommended_platforms", "content_themes", "content_formats", "brand_title", "personal_story"},
			outputs:  []string{"launch_schedule"},
		},
	}
	for i, w := range want {
		d := descs[i]
		assert.Equal(t, w.name, d.Name)
		assert.Equal(t, w.section, d.Section)
		assert.Equal(t, w.required, d.Required)
		assert.Equal(t, w.outputs, d.OutputNames())
		assert.NotEmpty(t, d.System)
		require.NoError(t, d.Check())
	}
}

func TestNewOrchestrator_DependencyOrderIsValid(t *testing.T) {
	t.Parallel()

	orch, err := NewOrchestrator(noopProvider, Options{})
	require.NoError(t, err)
	require.NoError(t, orch.Validate())
	assert.Len(t, orch.Descriptors(), 5)
}

func TestOrchestrator_RejectsReorderedPipeline(t *testing.T) {
	t.Parallel()

	descs := Descriptors()
	descs[2], descs[3] = descs[3], descs[2]

	orch := pipeline.New(pipeline.WithInputFields(InputFields()...))
	var regErr error
	for _, d := range descs {
		a, err := pipeline.NewAgent(d, noopProvider)
		require.NoError(t, err)
		if regErr = orch.Register(a); regErr != nil {
			break
		}
	}

	var depErr *pipeline.DependencyError
	require.ErrorAs(t, regErr, &depErr)
	assert.Equal(t, ContentStrategyAgent, depErr.Agent)
	assert.Equal(t, []string{"target_audience_profile", "audience_interests"}, depErr.Missing)
}

func TestLaunchScheduleSchema(t *testing.T) {
	t.Parallel()

	spec := Descriptors()[4].Outputs[0]
	got, err := spec.Normalize(SampleResponses()[LaunchPlanningAgent][FieldLaunchSchedule])
	require.NoError(t, err)
	weeks := got.([]map[string]any)
	require.Len(t, weeks, 2)
	assert.Equal(t, 1, weeks[0]["week_number"])

	_, err = spec.Normalize([]any{map[string]any{"week_number": "first", "content": []any{}}})
	require.Error(t, err)
}
