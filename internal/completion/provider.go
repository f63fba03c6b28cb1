// Package completion provides the completion providers agents call: OpenAI,
// Gemini, agent CLIs run through ainvoke, and a canned stub, plus a retrying
// wrapper with rate limiting.
package completion

import (
	"context"
	"fmt"
	"io"

	"github.com/metalagman/brandcraft/internal/brand"
	"github.com/metalagman/brandcraft/internal/config"
	"github.com/metalagman/brandcraft/internal/pipeline"
	"golang.org/x/time/rate"
)

// Options carries runtime dependencies that do not belong in config.
type Options struct {
	// Stdout and Stderr receive exec agent output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// New builds the provider selected by cfg, wrapped in Retrying.
func New(ctx context.Context, cfg config.Config, opts Options) (pipeline.CompletionProvider, error) {
	base, err := newBase(ctx, cfg.Provider, opts)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if cfg.Retry.RatePerSecond > 0 {
		burst := cfg.Retry.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.Retry.RatePerSecond), burst)
	}

	policy := DefaultRetryPolicy()
	policy.MaxAttempts = cfg.Retry.MaxAttempts
	policy.InitialBackoff = cfg.Retry.InitialBackoff
	policy.MaxBackoff = cfg.Retry.MaxBackoff
	return NewRetrying(base, policy, limiter), nil
}

func newBase(ctx context.Context, pc config.ProviderConfig, opts Options) (pipeline.CompletionProvider, error) {
	switch pc.Type {
	case config.ProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			Model:     pc.Model,
			BaseURL:   pc.BaseURL,
			APIKey:    pc.APIKey,
			APIKeyEnv: pc.APIKeyEnv,
			Timeout:   pc.Timeout,
		}, nil)
	case config.ProviderGemini:
		return NewGemini(ctx, GeminiConfig{
			Model:     pc.Model,
			BaseURL:   pc.BaseURL,
			APIKey:    pc.APIKey,
			APIKeyEnv: pc.APIKeyEnv,
		}, nil)
	case config.ProviderExec:
		return NewExec(ExecConfig{
			Type:   pc.ExecType,
			Cmd:    pc.Cmd,
			Model:  pc.Model,
			UseTTY: pc.UseTTY,
			Stdout: opts.Stdout,
			Stderr: opts.Stderr,
		})
	case config.ProviderStub:
		return NewStub(brand.SampleResponses()), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", pc.Type)
	}
}
