package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"google.golang.org/genai"
)

const defaultGeminiAPIKeyEnv = "GEMINI_API_KEY"

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	Model     string
	BaseURL   string
	APIKey    string
	APIKeyEnv string
}

// Gemini completes agent requests with the Gemini API using structured JSON
// output.
type Gemini struct {
	model  string
	client *genai.Client
}

// NewGemini constructs a Gemini provider. httpClient may be nil.
func NewGemini(ctx context.Context, cfg GeminiConfig, httpClient *http.Client) (*Gemini, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}
	apiKey := resolveAPIKey(cfg.APIKey, cfg.APIKeyEnv, defaultGeminiAPIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required (set api_key or api_key_env)")
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{model: model, client: client}, nil
}

// Complete runs one generateContent call constrained to the output schema.
func (p *Gemini) Complete(ctx context.Context, req pipeline.CompletionRequest) (map[string]any, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   GeminiSchema(req.Schema),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && isPermanentStatus(apiErr.Code) {
			return nil, Permanent(fmt.Errorf("gemini generateContent: %w", err))
		}
		return nil, fmt.Errorf("gemini generateContent: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini response did not contain output text")
	}
	out, err := DecodeObject([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("gemini response: %w", err)
	}
	return out, nil
}

// GeminiSchema converts output fields into a genai response schema.
func GeminiSchema(fields []pipeline.FieldSpec) *genai.Schema {
	s := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(fields)),
	}
	for _, f := range fields {
		s.Properties[f.Name] = geminiField(f)
		s.Required = append(s.Required, f.Name)
		s.PropertyOrdering = append(s.PropertyOrdering, f.Name)
	}
	return s
}

func geminiField(f pipeline.FieldSpec) *genai.Schema {
	var s *genai.Schema
	switch f.Type {
	case pipeline.TypeEnum:
		s = &genai.Schema{Type: genai.TypeString, Format: "enum", Enum: f.Enum}
	case pipeline.TypeInt:
		s = &genai.Schema{Type: genai.TypeInteger}
	case pipeline.TypeStringList:
		s = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	case pipeline.TypeObjectList:
		s = &genai.Schema{Type: genai.TypeArray, Items: GeminiSchema(f.Items)}
	default:
		s = &genai.Schema{Type: genai.TypeString}
	}
	s.Description = f.Description
	return s
}
