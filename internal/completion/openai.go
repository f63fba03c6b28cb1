package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultAPIKeyEnv     = "OPENAI_API_KEY"
	defaultTimeout       = 60 * time.Second
)

// OpenAIConfig configures the OpenAI provider.
type OpenAIConfig struct {
	Model     string
	BaseURL   string
	APIKey    string
	APIKeyEnv string
	Timeout   time.Duration
}

// OpenAI completes agent requests with the OpenAI Responses API.
type OpenAI struct {
	model  string
	client openai.Client
}

// NewOpenAI constructs an OpenAI provider. httpClient may be nil.
func NewOpenAI(cfg OpenAIConfig, httpClient *http.Client) (*OpenAI, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("openai model is required")
	}

	apiKey := resolveAPIKey(cfg.APIKey, cfg.APIKeyEnv, defaultAPIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required (set api_key or api_key_env)")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithRequestTimeout(timeout),
		// Retries are handled by Retrying.
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return &OpenAI{
		model:  model,
		client: openai.NewClient(opts...),
	}, nil
}

// Complete executes a single Responses API request and decodes the output
// text as a JSON object.
func (p *OpenAI) Complete(ctx context.Context, req pipeline.CompletionRequest) (map[string]any, error) {
	resp, err := p.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:        p.model,
		Instructions: openai.String(Instructions(req)),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.Prompt),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && isPermanentStatus(apiErr.StatusCode) {
			return nil, Permanent(fmt.Errorf("openai responses.create: %w", err))
		}
		return nil, fmt.Errorf("openai responses.create: %w", err)
	}
	if msg := strings.TrimSpace(resp.Error.Message); msg != "" {
		return nil, fmt.Errorf("openai response failed: %s", msg)
	}

	output := strings.TrimSpace(resp.OutputText())
	if output == "" {
		return nil, fmt.Errorf("openai response did not contain output text")
	}
	out, err := DecodeObject([]byte(output))
	if err != nil {
		return nil, fmt.Errorf("openai response: %w", err)
	}
	return out, nil
}

func resolveAPIKey(key, env, fallbackEnv string) string {
	if k := strings.TrimSpace(key); k != "" {
		return k
	}
	name := strings.TrimSpace(env)
	if name == "" {
		name = fallbackEnv
	}
	return strings.TrimSpace(os.Getenv(name))
}

// isPermanentStatus reports client errors that a retry cannot fix. 408 and
// 429 are excluded.
func isPermanentStatus(code int) bool {
	return code >= 400 && code < 500 && code != http.StatusRequestTimeout && code != http.StatusTooManyRequests
}
