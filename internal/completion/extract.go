package completion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ExtractJSON returns the first balanced JSON object embedded in data, for
// models that wrap their answer in prose or code fences.
func ExtractJSON(data []byte) ([]byte, bool) {
	for start := bytes.IndexByte(data, '{'); start >= 0; {
		if end, ok := objectEnd(data[start:]); ok {
			candidate := data[start : start+end+1]
			if json.Valid(candidate) {
				return candidate, true
			}
		}
		next := bytes.IndexByte(data[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

// objectEnd finds the index of the brace closing the object that data
// starts with, skipping string contents.
func objectEnd(data []byte) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i, c := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// ErrNoJSON is returned when a response holds no JSON object.
var ErrNoJSON = errors.New("response does not contain a JSON object")

// DecodeObject parses model output into a JSON object, falling back to the
// first object embedded in the text.
func DecodeObject(text []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(text)
	var out map[string]any
	if err := json.Unmarshal(trimmed, &out); err == nil && out != nil {
		return out, nil
	}
	extracted, ok := ExtractJSON(trimmed)
	if !ok {
		return nil, ErrNoJSON
	}
	if err := json.Unmarshal(extracted, &out); err != nil {
		return nil, fmt.Errorf("decode response object: %w", err)
	}
	return out, nil
}
