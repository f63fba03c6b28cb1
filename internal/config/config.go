// Package config provides configuration loading and management for brandcraft.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Provider types.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderExec   = "exec"
	ProviderStub   = "stub"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config is the root configuration.
type Config struct {
	Provider  ProviderConfig  `json:"provider"  mapstructure:"provider"`
	Retry     RetryConfig     `json:"retry"     mapstructure:"retry"`
	Pipeline  PipelineConfig  `json:"pipeline"  mapstructure:"pipeline"`
	Storage   StorageConfig   `json:"storage"   mapstructure:"storage"`
	Retention RetentionPolicy `json:"retention" mapstructure:"retention"`
	Metrics   MetricsConfig   `json:"metrics"   mapstructure:"metrics"`
}

// ProviderConfig selects and configures the completion provider.
type ProviderConfig struct {
	Type      string        `json:"type"                  mapstructure:"type"`
	Model     string        `json:"model,omitempty"       mapstructure:"model"`
	BaseURL   string        `json:"base_url,omitempty"    mapstructure:"base_url"`
	APIKey    string        `json:"api_key,omitempty"     mapstructure:"api_key"`
	APIKeyEnv string        `json:"api_key_env,omitempty" mapstructure:"api_key_env"`
	Timeout   time.Duration `json:"timeout,omitempty"     mapstructure:"timeout"`
	// Cmd is the command line of a custom exec agent.
	Cmd []string `json:"cmd,omitempty" mapstructure:"cmd"`
	// ExecType picks a known agent CLI (codex, claude, gemini, opencode)
	// when Cmd is empty.
	ExecType string `json:"exec_type,omitempty" mapstructure:"exec_type"`
	UseTTY   bool   `json:"use_tty,omitempty"   mapstructure:"use_tty"`
}

// RetryConfig controls retries and rate limiting of provider calls.
type RetryConfig struct {
	MaxAttempts    int           `json:"max_attempts"              mapstructure:"max_attempts"`
	InitialBackoff time.Duration `json:"initial_backoff,omitempty" mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `json:"max_backoff,omitempty"     mapstructure:"max_backoff"`
	// RatePerSecond limits provider calls. Zero disables the limiter.
	RatePerSecond float64 `json:"rate_per_second,omitempty" mapstructure:"rate_per_second"`
	Burst         int     `json:"burst,omitempty"           mapstructure:"burst"`
}

// PipelineConfig holds orchestrator settings.
type PipelineConfig struct {
	CallTimeout time.Duration `json:"call_timeout,omitempty" mapstructure:"call_timeout"`
}

// StorageConfig selects where reports are stored. The run journal always
// lives in the SQLite database at Path.
type StorageConfig struct {
	Backend       string        `json:"backend"                  mapstructure:"backend"`
	Path          string        `json:"path,omitempty"           mapstructure:"path"`
	RedisAddr     string        `json:"redis_addr,omitempty"     mapstructure:"redis_addr"`
	RedisPassword string        `json:"redis_password,omitempty" mapstructure:"redis_password"`
	RedisDB       int           `json:"redis_db,omitempty"       mapstructure:"redis_db"`
	RedisTTL      time.Duration `json:"redis_ttl,omitempty"      mapstructure:"redis_ttl"`
}

// RetentionPolicy defines how many old reports to keep.
type RetentionPolicy struct {
	KeepLast int `json:"keep_last,omitempty" mapstructure:"keep_last"`
	KeepDays int `json:"keep_days,omitempty" mapstructure:"keep_days"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty" mapstructure:"textfile"`
}

// ExecTypes lists the agent CLIs the exec provider knows how to invoke.
func ExecTypes() []string {
	return []string{"codex", "claude", "gemini", "opencode"}
}

// Validate checks cross-field constraints the JSON schema cannot express.
func (c Config) Validate() error {
	var problems []string
	switch c.Provider.Type {
	case ProviderOpenAI, ProviderGemini:
		if strings.TrimSpace(c.Provider.Model) == "" {
			problems = append(problems, fmt.Sprintf("provider.model is required for %s", c.Provider.Type))
		}
	case ProviderExec:
		if len(c.Provider.Cmd) == 0 && !slices.Contains(ExecTypes(), c.Provider.ExecType) {
			problems = append(problems, "exec provider requires provider.cmd or a known provider.exec_type")
		}
	case ProviderStub:
	default:
		problems = append(problems, fmt.Sprintf("unknown provider.type %q", c.Provider.Type))
	}

	if c.Retry.MaxAttempts < 1 {
		problems = append(problems, "retry.max_attempts must be >= 1")
	}
	if c.Retry.MaxBackoff > 0 && c.Retry.InitialBackoff > c.Retry.MaxBackoff {
		problems = append(problems, "retry.initial_backoff must not exceed retry.max_backoff")
	}
	if c.Retry.RatePerSecond < 0 {
		problems = append(problems, "retry.rate_per_second must be >= 0")
	}
	if c.Pipeline.CallTimeout < 0 {
		problems = append(problems, "pipeline.call_timeout must be >= 0")
	}

	switch c.Storage.Backend {
	case BackendSQLite:
	case BackendRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			problems = append(problems, "storage.redis_addr is required for the redis backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown storage.backend %q", c.Storage.Backend))
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		problems = append(problems, "storage.path is required")
	}
	if c.Retention.KeepLast < 0 || c.Retention.KeepDays < 0 {
		problems = append(problems, "retention values must be >= 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
