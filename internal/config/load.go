package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DirName is the per-project state directory.
	DirName = ".brandcraft"
	// EnvPrefix prefixes environment overrides, e.g. BRANDCRAFT_PROVIDER_MODEL.
	EnvPrefix = "BRANDCRAFT"
	// ModelEnv overrides provider.model when no prefixed variable is set.
	ModelEnv = "OPENAI_MODEL_NAME"
)

// DefaultPath returns the config file location inside dir.
func DefaultPath(dir string) string {
	return filepath.Join(dir, DirName, "config.json")
}

// DefaultSettings returns the default configuration as raw settings, in the
// shape written to config.json.
func DefaultSettings() map[string]any {
	return map[string]any{
		"provider": map[string]any{
			"type":        ProviderOpenAI,
			"model":       "gpt-4",
			"api_key_env": "OPENAI_API_KEY",
			"timeout":     "60s",
		},
		"retry": map[string]any{
			"max_attempts":    3,
			"initial_backoff": "500ms",
			"max_backoff":     "10s",
			"rate_per_second": 0,
			"burst":           1,
		},
		"pipeline": map[string]any{
			"call_timeout": "90s",
		},
		"storage": map[string]any{
			"backend":    BackendSQLite,
			"path":       filepath.Join(DirName, "brandcraft.db"),
			"redis_addr": "localhost:6379",
			"redis_db":   0,
			"redis_ttl":  "720h",
		},
		"retention": map[string]any{
			"keep_last": 50,
			"keep_days": 0,
		},
		"metrics": map[string]any{
			"textfile": "",
		},
	}
}

// Default returns the decoded default configuration.
func Default() Config {
	cfg, err := decode(newViper())
	if err != nil {
		panic(fmt.Sprintf("config: decode defaults: %v", err))
	}
	return cfg
}

// Load reads the config file at path, applies .env and environment
// overrides, and validates the result. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := newViper()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			settings := map[string]any{}
			if err := json.Unmarshal(raw, &settings); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
			if err := ValidateSettings(settings); err != nil {
				return Config{}, err
			}
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	for section, values := range DefaultSettings() {
		for key, value := range values.(map[string]any) {
			v.SetDefault(section+"."+key, value)
		}
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("provider.model", EnvPrefix+"_PROVIDER_MODEL", ModelEnv)
	return v
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
