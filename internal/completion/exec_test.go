package completion

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ   string
		model string
		want  []string
	}{
		{typ: "codex", model: "gpt-5-codex", want: []string{"codex", "exec", "--model", "gpt-5-codex", "--full-auto", "--skip-git-repo-check"}},
		{typ: "opencode", want: []string{"opencode", "run"}},
		{typ: "claude", want: []string{"claude", "--output-format", "text", "--print", "--dangerously-skip-permissions"}},
		{typ: "gemini", model: "gemini-2.5-pro", want: []string{"gemini", "--model", "gemini-2.5-pro", "--output-format", "text", "--approval-mode", "yolo"}},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			t.Parallel()
			spec, ok := execSpecs[tt.typ]
			require.True(t, ok)
			assert.Equal(t, tt.want, execCmd(tt.typ, spec, tt.model))
		})
	}
}

func TestNewExec_UnknownType(t *testing.T) {
	t.Parallel()

	_, err := NewExec(ExecConfig{Type: "cursor"})
	require.Error(t, err)
}

func TestExecComplete_RunsScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "agent.sh")
	require.NoError(t, os.WriteFile(script, []byte(`#!/bin/sh
cat > /dev/null
RESP='{"brand_title":"AI Educator","core_values":["Growth"]}'
echo "$RESP" > output.json
echo "$RESP"
`), 0o755))

	p, err := NewExec(ExecConfig{Cmd: []string{script}, WorkDir: dir})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), pipeline.CompletionRequest{
		Agent:  "BrandIdentityAgent",
		System: "You are a personal branding expert.",
		Prompt: "Create a brand identity.",
		Schema: []pipeline.FieldSpec{
			pipeline.String("brand_title", ""),
			pipeline.StringList("core_values", ""),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "AI Educator", out["brand_title"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "run dir should be removed")
}

func TestExecComplete_FailingScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "agent.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho boom 1>&2\nexit 1\n"), 0o755))

	p, err := NewExec(ExecConfig{Cmd: []string{script}, WorkDir: dir})
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), pipeline.CompletionRequest{
		Agent:  "BrandIdentityAgent",
		Schema: []pipeline.FieldSpec{pipeline.String("brand_title", "")},
	})
	require.Error(t, err)
}
