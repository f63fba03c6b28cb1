// Package pipeline implements the agent pipeline: the agent contract, the
// additive workflow context and the orchestrator that runs agents in
// registration order and assembles the FinalReport.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithInputFields declares the fields the initial input supplies. When set,
// Register rejects agents whose requirements cannot be met by these fields
// plus the outputs of earlier agents.
func WithInputFields(fields ...string) Option {
	return func(o *Orchestrator) {
		o.inputFields = slices.Clone(fields)
		o.checkInputs = true
	}
}

// WithObserver adds observers notified of run events.
func WithObserver(obs ...Observer) Option {
	return func(o *Orchestrator) {
		o.observers = append(o.observers, obs...)
	}
}

// WithRunIDFunc overrides run id generation.
func WithRunIDFunc(fn func() string) Option {
	return func(o *Orchestrator) {
		o.newRunID = fn
	}
}

type runIDKey struct{}

// ContextWithRunID makes a Run on the returned context use id instead of a
// generated run id.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// Orchestrator runs registered agents strictly in order. The registered
// agent list is configuration; each Run gets its own Context and results, so
// one Orchestrator may serve concurrent runs.
type Orchestrator struct {
	mu          sync.RWMutex
	agents      []Agent
	inputFields []string
	checkInputs bool
	observers   []Observer
	newRunID    func() string
}

// New constructs an Orchestrator with no agents.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{newRunID: uuid.NewString}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Register appends agent to the pipeline after checking it against the
// agents registered so far.
func (o *Orchestrator) Register(agent Agent) error {
	if agent == nil {
		return errors.New("register: nil agent")
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.checkNext(o.agents, agent.Descriptor()); err != nil {
		return err
	}
	o.agents = append(o.agents, agent)
	return nil
}

// MustRegister registers agents and panics on the first error.
func (o *Orchestrator) MustRegister(agents ...Agent) {
	for _, a := range agents {
		if err := o.Register(a); err != nil {
			panic(fmt.Sprintf("pipeline: %v", err))
		}
	}
}

// Descriptors returns the registered agents' descriptors in order.
func (o *Orchestrator) Descriptors() []Descriptor {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]Descriptor, 0, len(o.agents))
	for _, a := range o.agents {
		out = append(out, a.Descriptor())
	}
	return out
}

// Validate re-checks the whole registered pipeline.
func (o *Orchestrator) Validate() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if len(o.agents) == 0 {
		return ErrNotRegistered
	}
	for i, a := range o.agents {
		if err := o.checkNext(o.agents[:i], a.Descriptor()); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) checkNext(prior []Agent, desc Descriptor) error {
	if err := desc.Check(); err != nil {
		return err
	}

	owners := make(map[string]string)
	if o.checkInputs {
		for _, f := range o.inputFields {
			owners[f] = InputOwner
		}
	}
	for _, p := range prior {
		pd := p.Descriptor()
		if pd.Name == desc.Name {
			return fmt.Errorf("agent %s already registered", desc.Name)
		}
		if desc.Section != "" && pd.Section == desc.Section {
			return fmt.Errorf("agent %s: report section %s already filled by %s", desc.Name, desc.Section, pd.Name)
		}
		for _, f := range pd.Outputs {
			owners[f.Name] = pd.Name
		}
	}

	for _, f := range desc.Outputs {
		if owner, exists := owners[f.Name]; exists {
			return &FieldCollisionError{Field: f.Name, Agent: desc.Name, Owner: owner}
		}
	}

	if !o.checkInputs {
		return nil
	}
	var missing []string
	for _, name := range desc.Required {
		if _, ok := owners[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Agent: desc.Name, Missing: missing}
	}
	return nil
}

// Run executes every registered agent against a fresh Context built from
// input. It returns a complete FinalReport or an error; never both.
func (o *Orchestrator) Run(ctx context.Context, input map[string]any) (*FinalReport, error) {
	o.mu.RLock()
	agents := slices.Clone(o.agents)
	observers := slices.Clone(o.observers)
	o.mu.RUnlock()

	if len(agents) == 0 {
		return nil, ErrNotRegistered
	}

	id, ok := ctx.Value(runIDKey{}).(string)
	if !ok || id == "" {
		id = o.newRunID()
	}
	r := &run{
		id:        id,
		agents:    agents,
		observers: observers,
		wc:        NewContext(input),
		results:   make(map[string]Result, len(agents)),
	}
	return r.execute(ctx)
}

// run is the per-invocation state.
type run struct {
	id        string
	state     State
	agents    []Agent
	observers []Observer
	wc        *Context
	results   map[string]Result
	startedAt time.Time
}

func (r *run) execute(ctx context.Context) (*FinalReport, error) {
	r.state = StateRunning
	r.startedAt = time.Now()
	r.emit(ctx, Event{Type: EventRunStarted, Total: len(r.agents)})

	for i, agent := range r.agents {
		desc := agent.Descriptor()
		pos := i + 1

		if err := ctx.Err(); err != nil {
			return r.fail(ctx, desc.Name, pos, &CancelledError{Agent: desc.Name, Cause: err}, 0)
		}

		r.emit(ctx, Event{Type: EventStepStarted, Agent: desc.Name, Position: pos})
		stepStart := time.Now()

		if !agent.Validate(r.wc) {
			missing := MissingFields(desc, r.wc)
			return r.fail(ctx, desc.Name, pos, &ValidationError{Agent: desc.Name, Missing: missing}, time.Since(stepStart))
		}

		res, err := agent.Process(ctx, r.wc)
		if ctxErr := ctx.Err(); ctxErr != nil {
			var cancelled *CancelledError
			if !errors.As(err, &cancelled) {
				err = &CancelledError{Agent: desc.Name, Cause: ctxErr}
			}
		}
		if err != nil {
			return r.fail(ctx, desc.Name, pos, err, time.Since(stepStart))
		}
		if err := conform(desc, res); err != nil {
			return r.fail(ctx, desc.Name, pos, err, time.Since(stepStart))
		}
		if err := r.wc.Merge(desc.Name, res); err != nil {
			return r.fail(ctx, desc.Name, pos, err, time.Since(stepStart))
		}
		r.results[desc.Name] = res

		r.emit(ctx, Event{
			Type:     EventStepCompleted,
			Agent:    desc.Name,
			Position: pos,
			Produced: res.Keys(),
			Duration: time.Since(stepStart),
		})
	}

	report := r.assemble()
	r.state = StateCompleted
	r.emit(ctx, Event{Type: EventRunCompleted, Duration: time.Since(r.startedAt)})
	return report, nil
}

// conform checks that a result holds exactly the declared output fields.
func conform(desc Descriptor, res Result) error {
	for _, name := range desc.OutputNames() {
		if _, ok := res[name]; !ok {
			return &ResponseSchemaError{Agent: desc.Name, Field: name, Reason: "missing"}
		}
	}
	if len(res) != len(desc.Outputs) {
		declared := desc.OutputNames()
		for _, k := range res.Keys() {
			if !slices.Contains(declared, k) {
				return &ResponseSchemaError{Agent: desc.Name, Field: k, Reason: "undeclared output field"}
			}
		}
	}
	return nil
}

func (r *run) fail(ctx context.Context, agent string, pos int, err error, d time.Duration) (*FinalReport, error) {
	stepErr := &StepError{Agent: agent, Position: pos, Total: len(r.agents), Err: err}
	r.state = StateFailed
	r.emit(ctx, Event{Type: EventStepFailed, Agent: agent, Position: pos, Duration: d, Err: err})
	r.emit(ctx, Event{Type: EventRunFailed, Agent: agent, Position: pos, Duration: time.Since(r.startedAt), Err: stepErr})
	r.results = nil
	return nil, stepErr
}

func (r *run) assemble() *FinalReport {
	report := &FinalReport{Title: ReportTitle}
	for _, agent := range r.agents {
		desc := agent.Descriptor()
		if desc.Section == "" {
			continue
		}
		report.SetSection(desc.Section, r.results[desc.Name])
	}
	return report
}

func (r *run) emit(ctx context.Context, ev Event) {
	if len(r.observers) == 0 {
		return
	}
	ev.RunID = r.id
	ev.State = r.state
	ev.Total = len(r.agents)
	ev.Fields = r.wc.Keys()
	ev.Time = time.Now()
	// Observers see the run even after the caller cancelled it.
	obsCtx := context.WithoutCancel(ctx)
	for _, obs := range r.observers {
		obs.Observe(obsCtx, ev)
	}
}
