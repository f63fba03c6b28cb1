package brand

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"text/template"

	"github.com/go-viper/mapstructure/v2"
	"github.com/metalagman/brandcraft/internal/pipeline"
)

// BrandIdentity is the typed brand_identity section.
type BrandIdentity struct {
	BrandTitle  string   `mapstructure:"brand_title"  json:"brand_title"`
	BrandSlogan string   `mapstructure:"brand_slogan" json:"brand_slogan"`
	CoreValues  []string `mapstructure:"core_values"  json:"core_values"`
}

// UniqueStrengths is the typed unique_strengths section.
type UniqueStrengths struct {
	UniqueStrengths []string `mapstructure:"unique_strengths" json:"unique_strengths"`
	PersonalStory   string   `mapstructure:"personal_story"   json:"personal_story"`
}

// TargetAudience is the typed target_audience section.
type TargetAudience struct {
	TargetAudienceProfile string   `mapstructure:"target_audience_profile" json:"target_audience_profile"`
	AudienceInterests     []string `mapstructure:"audience_interests"      json:"audience_interests"`
}

// ContentStrategy is the typed content_strategy section.
type ContentStrategy struct {
	RecommendedPlatforms []string `mapstructure:"recommended_platforms" json:"recommended_platforms"`
	ContentThemes        []string `mapstructure:"content_themes"        json:"content_themes"`
	ContentFormats       []string `mapstructure:"content_formats"       json:"content_formats"`
}

// ContentPiece is one scheduled publication.
type ContentPiece struct {
	ContentType string `mapstructure:"content_type" json:"content_type"`
	Topic       string `mapstructure:"topic"        json:"topic"`
	Platform    string `mapstructure:"platform"     json:"platform"`
}

// WeeklyPlan groups the content pieces of one launch week.
type WeeklyPlan struct {
	WeekNumber int            `mapstructure:"week_number" json:"week_number"`
	Content    []ContentPiece `mapstructure:"content"     json:"content"`
}

// LaunchPlan is the typed launch_plan section.
type LaunchPlan struct {
	LaunchSchedule []WeeklyPlan `mapstructure:"launch_schedule" json:"launch_schedule"`
}

// Strategy is a FinalReport decoded into typed sections.
type Strategy struct {
	Title           string          `json:"title"`
	BrandIdentity   BrandIdentity   `json:"brand_identity"`
	UniqueStrengths UniqueStrengths `json:"unique_strengths"`
	TargetAudience  TargetAudience  `json:"target_audience"`
	ContentStrategy ContentStrategy `json:"content_strategy"`
	LaunchPlan      LaunchPlan      `json:"launch_plan"`
}

// DecodeStrategy converts a complete report into a Strategy.
func DecodeStrategy(report *pipeline.FinalReport) (Strategy, error) {
	if report == nil {
		return Strategy{}, errors.New("decode strategy: nil report")
	}
	s := Strategy{Title: report.Title}
	targets := map[pipeline.Section]any{
		pipeline.SectionBrandIdentity:   &s.BrandIdentity,
		pipeline.SectionUniqueStrengths: &s.UniqueStrengths,
		pipeline.SectionTargetAudience:  &s.TargetAudience,
		pipeline.SectionContentStrategy: &s.ContentStrategy,
		pipeline.SectionLaunchPlan:      &s.LaunchPlan,
	}
	for _, section := range pipeline.Sections() {
		res, ok := report.Section(section)
		if !ok {
			return Strategy{}, fmt.Errorf("decode strategy: section %s is missing", section)
		}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:      targets[section],
			ErrorUnused: true,
		})
		if err != nil {
			return Strategy{}, fmt.Errorf("decode strategy: %w", err)
		}
		if err := dec.Decode(map[string]any(res)); err != nil {
			return Strategy{}, fmt.Errorf("decode strategy section %s: %w", section, err)
		}
	}
	return s, nil
}

//go:embed report.md.gotmpl
var reportTemplate string

var reportTmpl = template.Must(template.New("report").Parse(reportTemplate))

// RenderMarkdown renders s as a markdown document.
func RenderMarkdown(s Strategy) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("render strategy: %w", err)
	}
	return buf.String(), nil
}
