package pipeline

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// FieldType is the declared type of a context field.
type FieldType string

const (
	TypeString     FieldType = "string"
	TypeStringList FieldType = "string_list"
	TypeEnum       FieldType = "enum"
	TypeInt        FieldType = "int"
	TypeObjectList FieldType = "object_list"
)

// FieldSpec declares a named, typed field. Items is used by TypeObjectList,
// Enum by TypeEnum.
type FieldSpec struct {
	Name        string      `json:"name"`
	Type        FieldType   `json:"type"`
	Description string      `json:"description,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
	Items       []FieldSpec `json:"items,omitempty"`
}

// String declares a string field.
func String(name, description string) FieldSpec {
	return FieldSpec{Name: name, Type: TypeString, Description: description}
}

// StringList declares a list of strings.
func StringList(name, description string) FieldSpec {
	return FieldSpec{Name: name, Type: TypeStringList, Description: description}
}

// Enum declares a string restricted to values.
func Enum(name, description string, values ...string) FieldSpec {
	return FieldSpec{Name: name, Type: TypeEnum, Description: description, Enum: values}
}

// Int declares an integer field.
func Int(name, description string) FieldSpec {
	return FieldSpec{Name: name, Type: TypeInt, Description: description}
}

// ObjectList declares a list of objects whose members are items.
func ObjectList(name, description string, items ...FieldSpec) FieldSpec {
	return FieldSpec{Name: name, Type: TypeObjectList, Description: description, Items: items}
}

func (f FieldSpec) check() error {
	if f.Name == "" {
		return fmt.Errorf("field name is required")
	}
	switch f.Type {
	case TypeString, TypeStringList, TypeInt:
	case TypeEnum:
		if len(f.Enum) == 0 {
			return fmt.Errorf("enum field %q declares no values", f.Name)
		}
	case TypeObjectList:
		if len(f.Items) == 0 {
			return fmt.Errorf("object list field %q declares no items", f.Name)
		}
		seen := make(map[string]bool, len(f.Items))
		for _, item := range f.Items {
			if seen[item.Name] {
				return fmt.Errorf("object list field %q declares %q twice", f.Name, item.Name)
			}
			seen[item.Name] = true
			if err := item.check(); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("field %q has unknown type %q", f.Name, f.Type)
	}
	return nil
}

// fieldError reports the path of an offending value and why it was rejected.
type fieldError struct {
	path   string
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.path, e.reason)
}

// Normalize converts a decoded value into the canonical Go type for the spec:
// string, []string, int or []map[string]any. Values decoded from JSON
// (float64, json.Number, []any) are accepted; anything else is rejected.
func (f FieldSpec) Normalize(value any) (any, error) {
	return f.normalize(f.Name, value)
}

func (f FieldSpec) normalize(path string, value any) (any, error) {
	if value == nil {
		return nil, &fieldError{path: path, reason: "value is null"}
	}
	switch f.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, &fieldError{path: path, reason: fmt.Sprintf("want string, got %T", value)}
		}
		return s, nil
	case TypeEnum:
		s, ok := value.(string)
		if !ok {
			return nil, &fieldError{path: path, reason: fmt.Sprintf("want string, got %T", value)}
		}
		if !slices.Contains(f.Enum, s) {
			return nil, &fieldError{path: path, reason: fmt.Sprintf("value %q is not one of %v", s, f.Enum)}
		}
		return s, nil
	case TypeInt:
		n, ok := toInt(value)
		if !ok {
			return nil, &fieldError{path: path, reason: fmt.Sprintf("want integer, got %T(%v)", value, value)}
		}
		return n, nil
	case TypeStringList:
		return normalizeStrings(path, value)
	case TypeObjectList:
		return f.normalizeObjects(path, value)
	default:
		return nil, &fieldError{path: path, reason: fmt.Sprintf("unknown type %q", f.Type)}
	}
}

func normalizeStrings(path string, value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return slices.Clone(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, &fieldError{path: fmt.Sprintf("%s[%d]", path, i), reason: fmt.Sprintf("want string, got %T", item)}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &fieldError{path: path, reason: fmt.Sprintf("want list of strings, got %T", value)}
	}
}

func (f FieldSpec) normalizeObjects(path string, value any) ([]map[string]any, error) {
	var items []any
	switch v := value.(type) {
	case []map[string]any:
		items = make([]any, len(v))
		for i := range v {
			items[i] = v[i]
		}
	case []any:
		items = v
	default:
		return nil, &fieldError{path: path, reason: fmt.Sprintf("want list of objects, got %T", value)}
	}

	out := make([]map[string]any, 0, len(items))
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, &fieldError{path: itemPath, reason: fmt.Sprintf("want object, got %T", item)}
		}
		normalized := make(map[string]any, len(f.Items))
		for _, member := range f.Items {
			memberPath := itemPath + "." + member.Name
			raw, present := obj[member.Name]
			if !present {
				return nil, &fieldError{path: memberPath, reason: "missing"}
			}
			v, err := member.normalize(memberPath, raw)
			if err != nil {
				return nil, err
			}
			normalized[member.Name] = v
		}
		out = append(out, normalized)
	}
	return out, nil
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || math.IsNaN(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
