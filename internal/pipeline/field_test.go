package pipeline

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSpecNormalize(t *testing.T) {
	t.Parallel()

	week := ObjectList("launch_schedule", "",
		Int("week_number", ""),
		ObjectList("content", "", String("topic", "")),
	)

	tests := []struct {
		name     string
		spec     FieldSpec
		value    any
		want     any
		wantPath string
	}{
		{name: "string", spec: String("t", ""), value: "x", want: "x"},
		{name: "string rejects number", spec: String("t", ""), value: 1.0, wantPath: "t"},
		{name: "null", spec: String("t", ""), value: nil, wantPath: "t"},
		{name: "enum member", spec: Enum("e", "", "a", "b"), value: "b", want: "b"},
		{name: "enum outsider", spec: Enum("e", "", "a", "b"), value: "c", wantPath: "e"},
		{name: "int from float", spec: Int("n", ""), value: 3.0, want: 3},
		{name: "int from json number", spec: Int("n", ""), value: json.Number("4"), want: 4},
		{name: "int rejects fraction", spec: Int("n", ""), value: 1.5, wantPath: "n"},
		{name: "string list from any", spec: StringList("l", ""), value: []any{"a", "b"}, want: []string{"a", "b"}},
		{name: "empty string list", spec: StringList("l", ""), value: []any{}, want: []string{}},
		{name: "string list rejects member", spec: StringList("l", ""), value: []any{"a", 2.0}, wantPath: "l[1]"},
		{name: "string list rejects scalar", spec: StringList("l", ""), value: "a", wantPath: "l"},
		{
			name:  "object list",
			spec:  week,
			value: []any{map[string]any{"week_number": 1.0, "content": []any{map[string]any{"topic": "Intro", "extra": true}}}},
			want:  []map[string]any{{"week_number": 1, "content": []map[string]any{{"topic": "Intro"}}}},
		},
		{
			name:     "object list missing member",
			spec:     week,
			value:    []any{map[string]any{"week_number": 1.0, "content": []any{map[string]any{}}}},
			wantPath: "launch_schedule[0].content[0].topic",
		},
		{
			name:     "object list wrong week type",
			spec:     week,
			value:    []any{map[string]any{"week_number": "one", "content": []any{}}},
			wantPath: "launch_schedule[0].week_number",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := tt.spec.Normalize(tt.value)
			if tt.wantPath != "" {
				var fe *fieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantPath, fe.path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldSpecCheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, String("a", "").check())
	assert.Error(t, String("", "").check())
	assert.Error(t, Enum("e", "").check())
	assert.Error(t, ObjectList("o", "").check())
	assert.Error(t, ObjectList("o", "", String("x", ""), Int("x", "")).check())
	assert.Error(t, FieldSpec{Name: "f", Type: "float"}.check())
}
