package brand

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// StyleTone is the preferred tone of content and communication.
type StyleTone string

const (
	StyleProfessional StyleTone = "professional"
	StyleCasual       StyleTone = "casual"
	StyleAcademic     StyleTone = "academic"
	StyleInnovative   StyleTone = "innovative"
	StyleEducational  StyleTone = "educational"
)

// ExperienceLevel is the user's experience in their field.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceExpert       ExperienceLevel = "expert"
)

// Language is the primary language for content.
type Language string

const (
	LanguageEnglish   Language = "english"
	LanguageChinese   Language = "chinese"
	LanguageBilingual Language = "bilingual"
)

// Industry is the user's primary industry or technology focus.
type Industry string

const (
	IndustryAIML       Industry = "AI/Machine Learning"
	IndustryBlockchain Industry = "Blockchain/Web3"
	IndustryEdTech     Industry = "Educational Technology"
	IndustryHealthcare Industry = "Healthcare Tech"
	IndustryOther      Industry = "Other"
)

// Input is the validated user input that seeds the workflow context.
type Input struct {
	BasicIdentity           string          `mapstructure:"basic_identity"            json:"basic_identity"`
	BrandingGoal            string          `mapstructure:"branding_goal"             json:"branding_goal"`
	StyleTone               StyleTone       `mapstructure:"style_tone"                json:"style_tone"`
	ContentFormatPreference []string        `mapstructure:"content_format_preference" json:"content_format_preference"`
	PreferredPlatforms      []string        `mapstructure:"preferred_platforms"       json:"preferred_platforms"`
	TargetLanguage          Language        `mapstructure:"target_language"           json:"target_language"`
	ExperienceLevel         ExperienceLevel `mapstructure:"experience_level"          json:"experience_level"`
	IndustryFocus           Industry        `mapstructure:"industry_focus"            json:"industry_focus"`
	PersonalStoryHighlights string          `mapstructure:"personal_story_highlights" json:"personal_story_highlights,omitempty"`
	CustomKeywords          []string        `mapstructure:"custom_keywords"           json:"custom_keywords,omitempty"`
}

//go:embed input_schema.json
var inputSchemaJSON string

// InputError lists every schema violation of a raw input document.
type InputError struct {
	Problems []string
}

func (e *InputError) Error() string {
	return "invalid brand input: " + strings.Join(e.Problems, "; ")
}

// ParseInput validates raw against the input schema and decodes it.
func ParseInput(raw map[string]any) (Input, error) {
	if raw == nil {
		return Input{}, &InputError{Problems: []string{"input is empty"}}
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(inputSchemaJSON),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return Input{}, fmt.Errorf("validate brand input: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, schemaErr := range result.Errors() {
			problems = append(problems, schemaErr.String())
		}
		sort.Strings(problems)
		return Input{}, &InputError{Problems: problems}
	}

	var in Input
	if err := mapstructure.Decode(raw, &in); err != nil {
		return Input{}, fmt.Errorf("decode brand input: %w", err)
	}
	return in, nil
}

// LoadInputFile reads a JSON or YAML input document and parses it.
func LoadInputFile(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("read input: %w", err)
	}
	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Input{}, fmt.Errorf("parse yaml input: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return Input{}, fmt.Errorf("parse json input: %w", err)
		}
	}
	return ParseInput(raw)
}

// Fields returns the initial workflow context. Optional fields are always
// present, empty when the user left them out.
func (in Input) Fields() map[string]any {
	keywords := slices.Clone(in.CustomKeywords)
	if keywords == nil {
		keywords = []string{}
	}
	return map[string]any{
		FieldBasicIdentity:           in.BasicIdentity,
		FieldBrandingGoal:            in.BrandingGoal,
		FieldStyleTone:               string(in.StyleTone),
		FieldContentFormatPreference: slices.Clone(in.ContentFormatPreference),
		FieldPreferredPlatforms:      slices.Clone(in.PreferredPlatforms),
		FieldTargetLanguage:          string(in.TargetLanguage),
		FieldExperienceLevel:         string(in.ExperienceLevel),
		FieldIndustryFocus:           string(in.IndustryFocus),
		FieldPersonalStoryHighlights: in.PersonalStoryHighlights,
		FieldCustomKeywords:          keywords,
	}
}
