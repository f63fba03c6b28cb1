package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: &ValidationError{Agent: "A"}, want: "validation"},
		{name: "response schema", err: &ResponseSchemaError{Agent: "A", Field: "a"}, want: "response_schema"},
		{name: "provider", err: &CompletionProviderError{Agent: "A", Cause: errors.New("boom")}, want: "provider"},
		{name: "timeout", err: &CompletionProviderError{Agent: "A", Cause: context.DeadlineExceeded, Timeout: true}, want: "timeout"},
		{name: "collision", err: &FieldCollisionError{Field: "a"}, want: "field_collision"},
		{name: "dependency", err: &DependencyError{Agent: "A"}, want: "dependency"},
		{name: "cancelled", err: &CancelledError{Cause: context.Canceled}, want: "cancelled"},
		{name: "not registered", err: ErrNotRegistered, want: "not_registered"},
		{name: "wrapped in step", err: &StepError{Agent: "A", Position: 1, Total: 2, Err: &ValidationError{Agent: "A"}}, want: "validation"},
		{name: "wrapped with fmt", err: fmt.Errorf("run: %w", &CancelledError{Cause: context.Canceled}), want: "cancelled"},
		{name: "other", err: errors.New("x"), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "agent B: missing required fields: x, y",
		(&ValidationError{Agent: "B", Missing: []string{"x", "y"}}).Error())
	assert.Equal(t, `field "a" already exists (produced by input); rejected output of agent B`,
		(&FieldCollisionError{Field: "a", Agent: "B", Owner: "input"}).Error())
	assert.Equal(t, "pipeline step 2/5 (B): agent B: missing required fields: x",
		(&StepError{Agent: "B", Position: 2, Total: 5, Err: &ValidationError{Agent: "B", Missing: []string{"x"}}}).Error())
}
