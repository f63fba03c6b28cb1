package pipeline

import (
	"context"
	"time"
)

// State is the lifecycle state of one run.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EventType identifies a run lifecycle event.
type EventType string

const (
	EventRunStarted    EventType = "run_started"
	EventStepStarted   EventType = "step_started"
	EventStepCompleted EventType = "step_completed"
	EventStepFailed    EventType = "step_failed"
	EventRunCompleted  EventType = "run_completed"
	EventRunFailed     EventType = "run_failed"
)

// Event describes a state change of a run. Fields lists the context keys at
// the time of the event; Produced lists the keys merged by a completed step.
type Event struct {
	RunID    string
	Type     EventType
	State    State
	Agent    string
	Position int
	Total    int
	Fields   []string
	Produced []string
	Duration time.Duration
	Err      error
	Time     time.Time
}

// Observer receives run events. Observers must not block for long and
// cannot influence the run.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }
