// Package brand defines the personal-brand pipeline: the five agent
// descriptors, the initial input model and the typed strategy decoded from a
// FinalReport.
package brand

import (
	"embed"
	"fmt"
	"time"

	"github.com/metalagman/brandcraft/internal/pipeline"
)

//go:embed prompts/*.gotmpl
var promptsFS embed.FS

func mustPrompt(name string) string {
	data, err := promptsFS.ReadFile("prompts/" + name + ".gotmpl")
	if err != nil {
		panic(fmt.Sprintf("brand: missing prompt %s: %v", name, err))
	}
	return string(data)
}

// Descriptors returns the pipeline's agents in execution order.
func Descriptors() []pipeline.Descriptor {
	return []pipeline.Descriptor{
		{
			Name:        BrandIdentityAgent,
			Description: "Helps define the user's professional brand identity and positioning",
			Section:     pipeline.SectionBrandIdentity,
			System:      "You are a personal branding expert.",
			Required:    []string{FieldBasicIdentity, FieldBrandingGoal, FieldStyleTone, FieldIndustryFocus},
			Outputs: []pipeline.FieldSpec{
				pipeline.String(FieldBrandTitle, "Concise professional brand title"),
				pipeline.String(FieldBrandSlogan, "Memorable brand slogan"),
				pipeline.StringList(FieldCoreValues, "Core brand values"),
			},
			Prompt: mustPrompt("brand_identity"),
		},
		{
			Name:        UniqueStrengthsAgent,
			Description: "Identifies and articulates the user's unique professional strengths and story",
			Section:     pipeline.SectionUniqueStrengths,
			System: "You are an expert career coach and personal branding strategist who excels at " +
				"identifying unique professional strengths and crafting compelling personal narratives.",
			Required: []string{FieldBasicIdentity, FieldExperienceLevel, FieldPersonalStoryHighlights, FieldBrandTitle},
			Outputs: []pipeline.FieldSpec{
				pipeline.StringList(FieldUniqueStrengths, "Unique professional strengths"),
				pipeline.String(FieldPersonalStory, "Compelling personal narrative"),
			},
			Prompt: mustPrompt("unique_strengths"),
		},
		{
			Name:        TargetAudienceAgent,
			Description: "Identifies and analyzes the ideal target audience for the personal brand",
			Section:     pipeline.SectionTargetAudience,
			System: "You are an expert audience research analyst who excels at identifying and " +
				"understanding professional audience segments.",
			Required: []string{FieldBrandingGoal, FieldIndustryFocus, FieldBrandTitle, FieldUniqueStrengths},
			Outputs: []pipeline.FieldSpec{
				pipeline.String(FieldTargetAudienceProfile, "Detailed target audience description"),
				pipeline.StringList(FieldAudienceInterests, "Key audience interests and pain points"),
			},
			Prompt: mustPrompt("target_audience"),
		},
		{
			Name:        ContentStrategyAgent,
			Description: "Develops content themes and platform strategy for the personal brand",
			Section:     pipeline.SectionContentStrategy,
			System: "You are an expert content strategist who excels at developing engaging content " +
				"strategies for professional personal brands.",
			Required: []string{
				FieldContentFormatPreference,
				FieldPreferredPlatforms,
				FieldTargetLanguage,
				FieldTargetAudienceProfile,
				FieldAudienceInterests,
				FieldBrandTitle,
			},
			Outputs: []pipeline.FieldSpec{
				pipeline.StringList(FieldRecommendedPlatforms, "Prioritized list of content platforms"),
				pipeline.StringList(FieldContentThemes, "Main content themes to focus on"),
				pipeline.StringList(FieldContentFormats, "Recommended content formats"),
			},
			Prompt: mustPrompt("content_strategy"),
		},
		{
			Name:        LaunchPlanningAgent,
			Description: "Develops an actionable launch plan and content calendar for the personal brand",
			Section:     pipeline.SectionLaunchPlan,
			System: "You are an expert content calendar strategist who excels at creating realistic " +
				"and impactful launch plans.",
			Required: []string{
				FieldRecommendedPlatforms,
				FieldContentThemes,
				FieldContentFormats,
				FieldBrandTitle,
				FieldPersonalStory,
			},
			Outputs: []pipeline.FieldSpec{
				pipeline.ObjectList(FieldLaunchSchedule, "Weekly content schedule",
					pipeline.Int("week_number", "Week number in the launch schedule"),
					pipeline.ObjectList("content", "Content pieces for the week",
						pipeline.String("content_type", "Type of content"),
						pipeline.String("topic", "Content topic"),
						pipeline.String("platform", "Platform for publication"),
					),
				),
			},
			Prompt: mustPrompt("launch_plan"),
		},
	}
}

// Options configures NewOrchestrator.
type Options struct {
	// CallTimeout bounds every provider call. Zero means no per-call deadline.
	CallTimeout time.Duration
	Observers   []pipeline.Observer
}

// NewOrchestrator builds the five-agent pipeline on provider. Registration
// verifies the field dependency order against InputFields.
func NewOrchestrator(provider pipeline.CompletionProvider, opts Options) (*pipeline.Orchestrator, error) {
	orch := pipeline.New(
		pipeline.WithInputFields(InputFields()...),
		pipeline.WithObserver(opts.Observers...),
	)
	for _, desc := range Descriptors() {
		agent, err := pipeline.NewAgent(desc, provider, pipeline.WithCallTimeout(opts.CallTimeout))
		if err != nil {
			return nil, err
		}
		if err := orch.Register(agent); err != nil {
			return nil, fmt.Errorf("register %s: %w", desc.Name, err)
		}
	}
	return orch, nil
}
