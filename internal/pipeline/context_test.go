package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextMerge(t *testing.T) {
	t.Parallel()

	input := map[string]any{"basic_identity": "engineer"}
	wc := NewContext(input)
	input["injected"] = true
	assert.False(t, wc.Has("injected"), "context must copy its input")

	require.NoError(t, wc.Merge("A", Result{"brand_title": "T", "brand_slogan": "S"}))
	assert.Equal(t, []string{"basic_identity", "brand_slogan", "brand_title"}, wc.Keys())
	assert.Equal(t, InputOwner, wc.Owner("basic_identity"))
	assert.Equal(t, "A", wc.Owner("brand_title"))

	err := wc.Merge("B", Result{"personal_story": "p", "brand_title": "other"})
	var collision *FieldCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, "brand_title", collision.Field)
	assert.Equal(t, "B", collision.Agent)
	assert.Equal(t, "A", collision.Owner)

	assert.False(t, wc.Has("personal_story"), "failed merge must not add any field")
	v, _ := wc.Get("brand_title")
	assert.Equal(t, "T", v)
	assert.Equal(t, 3, wc.Len())
}

func TestContextMerge_InputCollision(t *testing.T) {
	t.Parallel()

	wc := NewContext(map[string]any{"style_tone": "casual"})
	err := wc.Merge("A", Result{"style_tone": "academic"})

	var collision *FieldCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, InputOwner, collision.Owner)
	assert.Contains(t, err.Error(), `field "style_tone" already exists (produced by input)`)
}

func TestContextSnapshot(t *testing.T) {
	t.Parallel()

	wc := NewContext(map[string]any{"a": 1})
	snap := wc.Snapshot()
	snap["b"] = 2
	assert.False(t, wc.Has("b"))
}
