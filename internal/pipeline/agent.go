package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// ListSeparator joins list-valued fields when they are interpolated into a
// prompt. It is part of the prompt text and therefore of reproducibility.
const ListSeparator = ", "

// CompletionRequest is what an agent asks of a CompletionProvider.
type CompletionRequest struct {
	Agent  string
	System string
	Prompt string
	Schema []FieldSpec
}

// CompletionProvider turns a prompt and an output schema into structured
// data. Implementations must honour ctx cancellation.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (map[string]any, error)
}

// CompletionProviderFunc adapts a function to CompletionProvider.
type CompletionProviderFunc func(ctx context.Context, req CompletionRequest) (map[string]any, error)

// Complete calls f.
func (f CompletionProviderFunc) Complete(ctx context.Context, req CompletionRequest) (map[string]any, error) {
	return f(ctx, req)
}

// Agent is one pipeline stage.
type Agent interface {
	Descriptor() Descriptor
	// Validate reports whether every required field is present in wc.
	Validate(wc *Context) bool
	// Process builds the prompt, calls the provider and returns exactly the
	// declared output fields.
	Process(ctx context.Context, wc *Context) (Result, error)
}

// Descriptor is the declarative contract of an agent.
type Descriptor struct {
	Name        string
	Description string
	// Section is the report section filled from this agent's result. Empty
	// means the result is not part of the FinalReport.
	Section  Section
	System   string
	Required []string
	Outputs  []FieldSpec
	// Prompt is a text/template executed over the required fields. The
	// join function renders list fields with ListSeparator.
	Prompt string
}

// OutputNames returns the declared output field names in order.
func (d Descriptor) OutputNames() []string {
	out := make([]string, 0, len(d.Outputs))
	for _, f := range d.Outputs {
		out = append(out, f.Name)
	}
	return out
}

// Check validates the descriptor itself.
func (d Descriptor) Check() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("agent name is required")
	}
	if len(d.Outputs) == 0 {
		return fmt.Errorf("agent %s declares no outputs", d.Name)
	}
	if d.Section != "" && !d.Section.Valid() {
		return fmt.Errorf("agent %s: unknown report section %q", d.Name, d.Section)
	}
	seen := make(map[string]bool, len(d.Outputs))
	for _, f := range d.Outputs {
		if seen[f.Name] {
			return &FieldCollisionError{Field: f.Name, Agent: d.Name, Owner: d.Name}
		}
		seen[f.Name] = true
		if err := f.check(); err != nil {
			return fmt.Errorf("agent %s: %w", d.Name, err)
		}
	}
	required := make(map[string]bool, len(d.Required))
	for _, name := range d.Required {
		if required[name] {
			return fmt.Errorf("agent %s: required field %q listed twice", d.Name, name)
		}
		required[name] = true
	}
	if _, err := parsePrompt(d); err != nil {
		return err
	}
	return nil
}

// MissingFields returns the fields of d.Required absent from wc, in declared
// order.
func MissingFields(d Descriptor, wc *Context) []string {
	var missing []string
	for _, name := range d.Required {
		if !wc.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// AgentOption configures a DescriptorAgent.
type AgentOption func(*DescriptorAgent)

// WithCallTimeout bounds each provider call. Zero disables the deadline.
func WithCallTimeout(d time.Duration) AgentOption {
	return func(a *DescriptorAgent) {
		a.callTimeout = d
	}
}

// DescriptorAgent is an Agent driven entirely by its Descriptor.
type DescriptorAgent struct {
	desc        Descriptor
	tmpl        *template.Template
	provider    CompletionProvider
	callTimeout time.Duration
}

// NewAgent builds an agent from a descriptor.
func NewAgent(desc Descriptor, provider CompletionProvider, opts ...AgentOption) (*DescriptorAgent, error) {
	if provider == nil {
		return nil, fmt.Errorf("agent %s: completion provider is required", desc.Name)
	}
	if err := desc.Check(); err != nil {
		return nil, err
	}
	tmpl, err := parsePrompt(desc)
	if err != nil {
		return nil, err
	}
	a := &DescriptorAgent{
		desc:     desc,
		tmpl:     tmpl,
		provider: provider,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

var promptFuncs = template.FuncMap{
	"join": joinValue,
}

func parsePrompt(d Descriptor) (*template.Template, error) {
	tmpl, err := template.New(d.Name).Funcs(promptFuncs).Option("missingkey=error").Parse(d.Prompt)
	if err != nil {
		return nil, fmt.Errorf("agent %s: parse prompt template: %w", d.Name, err)
	}
	return tmpl, nil
}

func joinValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []string:
		return strings.Join(t, ListSeparator), nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ListSeparator), nil
	default:
		return "", fmt.Errorf("join: unsupported value %T", v)
	}
}

// Descriptor returns the agent's contract.
func (a *DescriptorAgent) Descriptor() Descriptor { return a.desc }

// Validate reports whether every required field is present.
func (a *DescriptorAgent) Validate(wc *Context) bool {
	return len(MissingFields(a.desc, wc)) == 0
}

// Prompt renders the prompt from the required fields of wc. The output is a
// pure function of those field values.
func (a *DescriptorAgent) Prompt(wc *Context) (string, error) {
	data := make(map[string]any, len(a.desc.Required))
	for _, name := range a.desc.Required {
		v, ok := wc.Get(name)
		if !ok {
			return "", &ValidationError{Agent: a.desc.Name, Missing: MissingFields(a.desc, wc)}
		}
		data[name] = v
	}
	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("agent %s: execute prompt template: %w", a.desc.Name, err)
	}
	return buf.String(), nil
}

// Process runs one completion and validates the response against the
// declared outputs.
func (a *DescriptorAgent) Process(ctx context.Context, wc *Context) (Result, error) {
	prompt, err := a.Prompt(wc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, &CancelledError{Agent: a.desc.Name, Cause: err}
	}

	callCtx := ctx
	if a.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, a.callTimeout)
		defer cancel()
	}

	raw, err := a.provider.Complete(callCtx, CompletionRequest{
		Agent:  a.desc.Name,
		System: a.desc.System,
		Prompt: prompt,
		Schema: a.desc.Outputs,
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &CancelledError{Agent: a.desc.Name, Cause: ctxErr}
	}
	if err != nil {
		timeout := errors.Is(callCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded)
		return nil, &CompletionProviderError{Agent: a.desc.Name, Cause: err, Timeout: timeout}
	}
	return a.parse(raw)
}

func (a *DescriptorAgent) parse(raw map[string]any) (Result, error) {
	if raw == nil {
		return nil, &ResponseSchemaError{Agent: a.desc.Name, Field: a.desc.Outputs[0].Name, Reason: "empty response"}
	}
	res := make(Result, len(a.desc.Outputs))
	for _, spec := range a.desc.Outputs {
		v, ok := raw[spec.Name]
		if !ok {
			return nil, &ResponseSchemaError{Agent: a.desc.Name, Field: spec.Name, Reason: "missing"}
		}
		normalized, err := spec.Normalize(v)
		if err != nil {
			field, reason := spec.Name, err.Error()
			var fe *fieldError
			if errors.As(err, &fe) {
				field, reason = fe.path, fe.reason
			}
			return nil, &ResponseSchemaError{Agent: a.desc.Name, Field: field, Reason: reason}
		}
		res[spec.Name] = normalized
	}
	return res, nil
}
