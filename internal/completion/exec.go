package completion

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/metalagman/ainvoke"
	"github.com/metalagman/brandcraft/internal/pipeline"
	"github.com/rs/zerolog/log"
)

const execInputSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "agent": { "type": "string" },
    "prompt": { "type": "string" }
  },
  "required": ["agent", "prompt"]
}`

type execSpec struct {
	defaultSubcommand string
	extraFlags        []string
}

var execSpecs = map[string]execSpec{
	"codex": {
		defaultSubcommand: "exec",
		extraFlags:        []string{"--full-auto", "--skip-git-repo-check"},
	},
	"opencode": {
		defaultSubcommand: "run",
	},
	"gemini": {
		extraFlags: []string{"--output-format", "text", "--approval-mode", "yolo"},
	},
	"claude": {
		extraFlags: []string{"--output-format", "text", "--print", "--dangerously-skip-permissions"},
	},
}

// ExecConfig configures the exec provider. Cmd wins over Type.
type ExecConfig struct {
	Type   string
	Cmd    []string
	Model  string
	UseTTY bool
	// WorkDir holds the per-call run directories. Empty means os.TempDir.
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
}

// Exec completes agent requests by running an agent CLI through ainvoke.
// The CLI receives input.json and must write output.json matching the
// output schema.
type Exec struct {
	cfg    ExecConfig
	cmd    []string
	runner ainvoke.Runner
}

// NewExec constructs an exec provider.
func NewExec(cfg ExecConfig) (*Exec, error) {
	cmd := cfg.Cmd
	if len(cmd) == 0 {
		spec, ok := execSpecs[cfg.Type]
		if !ok {
			return nil, fmt.Errorf("unknown exec agent type %q", cfg.Type)
		}
		cmd = execCmd(cfg.Type, spec, cfg.Model)
	}

	runner, err := ainvoke.NewRunner(ainvoke.AgentConfig{
		Cmd:    cmd,
		UseTTY: cfg.UseTTY,
	})
	if err != nil {
		return nil, err
	}
	return &Exec{cfg: cfg, cmd: cmd, runner: runner}, nil
}

func execCmd(base string, spec execSpec, model string) []string {
	out := []string{base}
	if spec.defaultSubcommand != "" {
		out = append(out, spec.defaultSubcommand)
	}
	if model != "" {
		out = append(out, "--model", model)
	}
	return append(out, spec.extraFlags...)
}

// Cmd returns the resolved command line.
func (p *Exec) Cmd() []string { return p.cmd }

// Complete runs the agent once in a fresh run directory.
func (p *Exec) Complete(ctx context.Context, req pipeline.CompletionRequest) (map[string]any, error) {
	runDir, err := os.MkdirTemp(p.cfg.WorkDir, "brandcraft-"+req.Agent+"-*")
	if err != nil {
		return nil, fmt.Errorf("create run dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(runDir); err != nil {
			log.Warn().Err(err).Str("dir", runDir).Msg("failed to remove exec run dir")
		}
	}()

	inv := ainvoke.Invocation{
		RunDir:       runDir,
		SystemPrompt: Instructions(req),
		Input: map[string]any{
			"agent":  req.Agent,
			"prompt": req.Prompt,
		},
		InputSchema:  execInputSchema,
		OutputSchema: JSONSchema(req.Schema),
	}
	out, _, exitCode, err := p.runner.Run(ctx, inv,
		ainvoke.WithStdout(writerOrDiscard(p.cfg.Stdout)),
		ainvoke.WithStderr(writerOrDiscard(p.cfg.Stderr)),
	)
	if err != nil {
		return nil, fmt.Errorf("run exec agent (exit code %d): %w", exitCode, err)
	}
	obj, err := DecodeObject(out)
	if err != nil {
		return nil, fmt.Errorf("exec agent output: %w", err)
	}
	return obj, nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
