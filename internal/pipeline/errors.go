package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotRegistered is returned by Run when the orchestrator has no agents.
var ErrNotRegistered = errors.New("no agents registered")

// ValidationError reports required fields absent from the context before an
// agent ran.
type ValidationError struct {
	Agent   string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("agent %s: missing required fields: %s", e.Agent, strings.Join(e.Missing, ", "))
}

// ResponseSchemaError reports provider output that does not match the
// declared output fields. Field is the offending field, or its path for
// nested values.
type ResponseSchemaError struct {
	Agent  string
	Field  string
	Reason string
}

func (e *ResponseSchemaError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("agent %s: response field %s does not match schema", e.Agent, e.Field)
	}
	return fmt.Sprintf("agent %s: response field %s: %s", e.Agent, e.Field, e.Reason)
}

// CompletionProviderError wraps a provider failure.
type CompletionProviderError struct {
	Agent   string
	Cause   error
	Timeout bool
}

func (e *CompletionProviderError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("agent %s: completion provider timed out: %v", e.Agent, e.Cause)
	}
	return fmt.Sprintf("agent %s: completion provider failed: %v", e.Agent, e.Cause)
}

func (e *CompletionProviderError) Unwrap() error { return e.Cause }

// FieldCollisionError reports an attempt to add a field that already exists.
// Owner names who produced the field first ("input" for initial input), and
// may be empty when unknown.
type FieldCollisionError struct {
	Field string
	Agent string
	Owner string
}

func (e *FieldCollisionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "field %q already exists", e.Field)
	if e.Owner != "" {
		fmt.Fprintf(&b, " (produced by %s)", e.Owner)
	}
	if e.Agent != "" {
		fmt.Fprintf(&b, "; rejected output of agent %s", e.Agent)
	}
	return b.String()
}

// DependencyError reports an agent whose required fields cannot be satisfied
// by the declared input plus the outputs of agents registered before it.
type DependencyError struct {
	Agent   string
	Missing []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("agent %s: required fields not produced by input or earlier agents: %s",
		e.Agent, strings.Join(e.Missing, ", "))
}

// CancelledError reports a run aborted by its caller. It unwraps to the
// context error.
type CancelledError struct {
	Agent string
	Cause error
}

func (e *CancelledError) Error() string {
	if e.Agent == "" {
		return fmt.Sprintf("pipeline cancelled: %v", e.Cause)
	}
	return fmt.Sprintf("pipeline cancelled during agent %s: %v", e.Agent, e.Cause)
}

func (e *CancelledError) Unwrap() error { return e.Cause }

// StepError annotates the first failure of a run with the pipeline position.
type StepError struct {
	Agent    string
	Position int
	Total    int
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("pipeline step %d/%d (%s): %v", e.Position, e.Total, e.Agent, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ErrorKind classifies err into a short stable label for metrics and exit
// codes. It returns "" for nil.
func ErrorKind(err error) string {
	var (
		validation *ValidationError
		schema     *ResponseSchemaError
		provider   *CompletionProviderError
		collision  *FieldCollisionError
		dependency *DependencyError
		cancelled  *CancelledError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &cancelled):
		return "cancelled"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &schema):
		return "response_schema"
	case errors.As(err, &provider):
		if provider.Timeout {
			return "timeout"
		}
		return "provider"
	case errors.As(err, &collision):
		return "field_collision"
	case errors.As(err, &dependency):
		return "dependency"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	default:
		return "unknown"
	}
}
