package brand

// SampleResponses returns a canned, schema-conforming response for every
// agent, keyed by agent name. Each call builds fresh values so callers may
// mutate the result.
func SampleResponses() map[string]map[string]any {
	return map[string]map[string]any{
		BrandIdentityAgent: {
			FieldBrandTitle:  "AI Developer and Tech Educator",
			FieldBrandSlogan: "Building AI, Inspiring Minds",
			FieldCoreValues:  []string{"Innovation", "Authenticity", "Growth"},
		},
		UniqueStrengthsAgent: {
			FieldUniqueStrengths: []string{
				"Rapid Prototyping",
				"Open Source Contributor",
				"Cross-functional Team Leadership",
				"Data-Driven Decision Making",
			},
			FieldPersonalStory: "Transitioned from mechanical engineering to AI through self-learning " +
				"Python and competing in Kaggle competitions. Now combines engineering " +
				"precision with AI innovation to build practical solutions.",
		},
		TargetAudienceAgent: {
			FieldTargetAudienceProfile: "Junior AI developers, tech recruiters, and early-stage AI startups " +
				"looking to build practical AI solutions and grow their technical teams",
			FieldAudienceInterests: []string{
				"Learning AI fundamentals and best practices",
				"Career growth in AI/ML field",
				"Building practical AI projects",
				"Technical team development",
				"Industry networking opportunities",
			},
		},
		ContentStrategyAgent: {
			FieldRecommendedPlatforms: []string{"LinkedIn", "Twitter", "Personal Blog", "YouTube"},
			FieldContentThemes: []string{
				"AI Project Showcases",
				"Technical Tutorial Series",
				"Industry Trends Analysis",
				"Career Growth Tips",
				"Behind-the-Scenes Development",
			},
			FieldContentFormats: []string{
				"Technical Blog Posts",
				"Code Walkthrough Videos",
				"LinkedIn Articles",
				"Twitter Threads",
				"Live Coding Sessions",
			},
		},
		LaunchPlanningAgent: {
			FieldLaunchSchedule: []map[string]any{
				{
					"week_number": 1,
					"content": []map[string]any{
						{"content_type": "Article", "topic": "Personal Introduction and Vision", "platform": "LinkedIn"},
						{"content_type": "Thread", "topic": "My AI Journey Highlights", "platform": "Twitter"},
					},
				},
				{
					"week_number": 2,
					"content": []map[string]any{
						{"content_type": "Tutorial", "topic": "Building Your First AI Model", "platform": "Personal Blog"},
						{"content_type": "Video", "topic": "Code Walkthrough", "platform": "YouTube"},
					},
				},
			},
		},
	}
}

// SampleInput returns a complete, valid input document.
func SampleInput() map[string]any {
	return map[string]any{
		FieldBasicIdentity:           "Software engineer turned machine learning practitioner",
		FieldBrandingGoal:            "Become a recognised voice on practical AI engineering",
		FieldStyleTone:               string(StyleEducational),
		FieldContentFormatPreference: []any{"long_form", "tutorial"},
		FieldPreferredPlatforms:      []any{"LinkedIn", "Personal Blog"},
		FieldTargetLanguage:          string(LanguageEnglish),
		FieldExperienceLevel:         string(ExperienceIntermediate),
		FieldIndustryFocus:           string(IndustryAIML),
		FieldPersonalStoryHighlights: "Moved from mechanical engineering into AI through Kaggle competitions",
		FieldCustomKeywords:          []any{"mlops", "open source"},
	}
}
