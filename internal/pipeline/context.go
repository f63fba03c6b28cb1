package pipeline

import (
	"maps"
	"slices"
)

// InputOwner marks fields that came from the initial input.
const InputOwner = "input"

// Context is the accumulating field store threaded through one run. It is
// strictly additive: Merge never replaces an existing key.
//
// A Context belongs to a single run and is not safe for concurrent use.
type Context struct {
	values map[string]any
	owners map[string]string
}

// NewContext creates a context holding a copy of input.
func NewContext(input map[string]any) *Context {
	c := &Context{
		values: make(map[string]any, len(input)),
		owners: make(map[string]string, len(input)),
	}
	for k, v := range input {
		c.values[k] = v
		c.owners[k] = InputOwner
	}
	return c
}

// Get returns the value stored under field.
func (c *Context) Get(field string) (any, bool) {
	v, ok := c.values[field]
	return v, ok
}

// Has reports whether field is present.
func (c *Context) Has(field string) bool {
	_, ok := c.values[field]
	return ok
}

// Owner returns who added field: InputOwner or an agent name.
func (c *Context) Owner(field string) string {
	return c.owners[field]
}

// Merge inserts every key of result on behalf of agent. It fails without
// modifying the context if any key is already present.
func (c *Context) Merge(agent string, result Result) error {
	for _, k := range result.Keys() {
		if _, exists := c.values[k]; exists {
			return &FieldCollisionError{Field: k, Agent: agent, Owner: c.owners[k]}
		}
	}
	for k, v := range result {
		c.values[k] = v
		c.owners[k] = agent
	}
	return nil
}

// Keys returns the field names in sorted order.
func (c *Context) Keys() []string {
	return slices.Sorted(maps.Keys(c.values))
}

// Len returns the number of fields.
func (c *Context) Len() int { return len(c.values) }

// Snapshot returns a shallow copy of the fields for diagnostics.
func (c *Context) Snapshot() map[string]any {
	return maps.Clone(c.values)
}

// Result is the field set produced by one successful Process call.
type Result map[string]any

// Keys returns the result's field names in sorted order.
func (r Result) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}
