package completion

import (
	"context"
	"testing"

	"github.com/metalagman/brandcraft/internal/brand"
	"github.com/metalagman/brandcraft/internal/config"
	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StubIsWrapped(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Provider.Type = config.ProviderStub
	cfg.Retry.RatePerSecond = 5

	p, err := New(context.Background(), cfg, Options{})
	require.NoError(t, err)
	require.IsType(t, &Retrying{}, p)

	out, err := p.Complete(context.Background(), pipeline.CompletionRequest{Agent: brand.BrandIdentityAgent})
	require.NoError(t, err)
	assert.Contains(t, out, brand.FieldBrandSlogan)
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "unknown type",
			mutate: func(c *config.Config) { c.Provider.Type = "carrier-pigeon" },
			want:   "unknown provider type",
		},
		{
			name: "openai without key",
			mutate: func(c *config.Config) {
				c.Provider.Type = config.ProviderOpenAI
				c.Provider.APIKey = ""
				c.Provider.APIKeyEnv = "BRANDCRAFT_TEST_UNSET_KEY"
			},
			want: "api key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BRANDCRAFT_TEST_UNSET_KEY", "")
			cfg := config.Default()
			tt.mutate(&cfg)

			_, err := New(context.Background(), cfg, Options{})
			require.ErrorContains(t, err, tt.want)
		})
	}
}
