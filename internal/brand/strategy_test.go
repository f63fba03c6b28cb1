package brand

import (
	"strings"
	"testing"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *pipeline.FinalReport {
	samples := SampleResponses()
	return &pipeline.FinalReport{
		Title:           pipeline.ReportTitle,
		BrandIdentity:   samples[BrandIdentityAgent],
		UniqueStrengths: samples[UniqueStrengthsAgent],
		TargetAudience:  samples[TargetAudienceAgent],
		ContentStrategy: samples[ContentStrategyAgent],
		LaunchPlan:      samples[LaunchPlanningAgent],
	}
}

func TestDecodeStrategy(t *testing.T) {
	t.Parallel()

	s, err := DecodeStrategy(sampleReport())
	require.NoError(t, err)
	assert.Equal(t, "AI Developer and Tech Educator", s.BrandIdentity.BrandTitle)
	assert.Equal(t, []string{"Innovation", "Authenticity", "Growth"}, s.BrandIdentity.CoreValues)
	assert.Len(t, s.UniqueStrengths.UniqueStrengths, 4)
	assert.Equal(t, ContentPiece{ContentType: "Article", Topic: "Personal Introduction and Vision", Platform: "LinkedIn"},
		s.LaunchPlan.LaunchSchedule[0].Content[0])
}

func TestDecodeStrategy_JSONShapedValues(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	report.LaunchPlan = pipeline.Result{
		FieldLaunchSchedule: []any{
			map[string]any{"week_number": 3.0, "content": []any{
				map[string]any{"content_type": "Video", "topic": "Demo", "platform": "YouTube"},
			}},
		},
	}

	s, err := DecodeStrategy(report)
	require.NoError(t, err)
	assert.Equal(t, 3, s.LaunchPlan.LaunchSchedule[0].WeekNumber)
}

func TestDecodeStrategy_Errors(t *testing.T) {
	t.Parallel()

	_, err := DecodeStrategy(nil)
	require.Error(t, err)

	report := sampleReport()
	report.TargetAudience = nil
	_, err = DecodeStrategy(report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target_audience")
}

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	s, err := DecodeStrategy(sampleReport())
	require.NoError(t, err)

	md, err := RenderMarkdown(s)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Personal Brand Strategy Report\n"))
	assert.Contains(t, md, "> Building AI, Inspiring Minds")
	assert.Contains(t, md, "- Rapid Prototyping")
	assert.Contains(t, md, "### Week 2")
	assert.Contains(t, md, "| Tutorial | Building Your First AI Model | Personal Blog |")
}
