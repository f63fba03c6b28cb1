package brand

// Initial input fields.
const (
	FieldBasicIdentity           = "basic_identity"
	FieldBrandingGoal            = "branding_goal"
	FieldStyleTone               = "style_tone"
	FieldContentFormatPreference = "content_format_preference"
	FieldPreferredPlatforms      = "preferred_platforms"
	FieldTargetLanguage          = "target_language"
	FieldExperienceLevel         = "experience_level"
	FieldIndustryFocus           = "industry_focus"
	FieldPersonalStoryHighlights = "personal_story_highlights"
	FieldCustomKeywords          = "custom_keywords"
)

// Agent output fields, grouped by producing agent.
const (
	FieldBrandTitle  = "brand_title"
	FieldBrandSlogan = "brand_slogan"
	FieldCoreValues  = "core_values"

	FieldUniqueStrengths = "unique_strengths"
	FieldPersonalStory   = "personal_story"

	FieldTargetAudienceProfile = "target_audience_profile"
	FieldAudienceInterests     = "audience_interests"

	FieldRecommendedPlatforms = "recommended_platforms"
	FieldContentThemes        = "content_themes"
	FieldContentFormats       = "content_formats"

	FieldLaunchSchedule = "launch_schedule"
)

// Agent names.
const (
	BrandIdentityAgent   = "BrandIdentityAgent"
	UniqueStrengthsAgent = "UniqueStrengthsAgent"
	TargetAudienceAgent  = "TargetAudienceAgent"
	ContentStrategyAgent = "ContentStrategyAgent"
	LaunchPlanningAgent  = "LaunchPlanningAgent"
)

// InputFields lists every field the initial input puts into the context.
func InputFields() []string {
	return []string{
		FieldBasicIdentity,
		FieldBrandingGoal,
		FieldStyleTone,
		FieldContentFormatPreference,
		FieldPreferredPlatforms,
		FieldTargetLanguage,
		FieldExperienceLevel,
		FieldIndustryFocus,
		FieldPersonalStoryHighlights,
		FieldCustomKeywords,
	}
}
