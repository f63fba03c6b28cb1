package completion

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/metalagman/brandcraft/internal/pipeline"
)

// StubHook answers one request in place of the canned response.
type StubHook func(ctx context.Context, req pipeline.CompletionRequest) (map[string]any, error)

// Stub is a deterministic provider returning canned responses keyed by
// agent name. It records every request and is safe for concurrent use.
type Stub struct {
	mu        sync.Mutex
	responses map[string]map[string]any
	hooks     map[string]StubHook
	calls     []pipeline.CompletionRequest
}

// NewStub creates a stub answering with responses.
func NewStub(responses map[string]map[string]any) *Stub {
	return &Stub{
		responses: responses,
		hooks:     make(map[string]StubHook),
	}
}

// On installs hook for agent, replacing its canned response.
func (s *Stub) On(agent string, hook StubHook) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[agent] = hook
	return s
}

// Complete records req and returns a copy of the canned response.
func (s *Stub) Complete(ctx context.Context, req pipeline.CompletionRequest) (map[string]any, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	hook := s.hooks[req.Agent]
	resp, ok := s.responses[req.Agent]
	s.mu.Unlock()

	if hook != nil {
		return hook(ctx, req)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, Permanent(fmt.Errorf("stub: no response for agent %s", req.Agent))
	}
	return cloneValue(resp).(map[string]any), nil
}

// Calls returns the recorded requests in call order.
func (s *Stub) Calls() []pipeline.CompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// CallCount returns how many requests agent made.
func (s *Stub) CallCount(agent string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Agent == agent {
			n++
		}
	}
	return n
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = cloneValue(item)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item).(map[string]any)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}
