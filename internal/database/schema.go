package database

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// recordSchema is the JSON Schema every tool object must satisfy.
const recordSchema = `{
  "type": "object",
  "required": ["name", "category", "description", "dependencies"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "category": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "dependencies": {"type": "array", "items": {"type": "string"}},
    "path": {"type": "string"},
    "version": {"type": "string"},
    "long_description": {"type": "string"},
    "url": {"type": "string"},
    "help_command": {"type": "string"},
    "optional_dependencies": {"type": "array", "items": {"type": "string"}},
    "groups": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	resolveOnce sync.Once
	resolved    *jsonschema.Resolved
	resolveErr  error
)

func recordValidator() (*jsonschema.Resolved, error) {
	resolveOnce.Do(func() {
		var schema jsonschema.Schema
		if err := json.Unmarshal([]byte(recordSchema), &schema); err != nil {
			resolveErr = fmt.Errorf("failed to parse record schema: %w", err)
			return
		}
		resolved, resolveErr = schema.Resolve(nil)
	})
	return resolved, resolveErr
}

// requiredFields is checked in order so the first broken field is reported.
var requiredFields = []struct {
	name     string
	kind     string
	nonEmpty bool
}{
	{"name", "string", true},
	{"category", "string", true},
	{"description", "string", false},
	{"dependencies", "array of strings", false},
}

var optionalFields = []struct {
	name string
	kind string
}{
	{"path", "string"},
	{"version", "string"},
	{"long_description", "string"},
	{"url", "string"},
	{"help_command", "string"},
	{"optional_dependencies", "array of strings"},
	{"groups", "array of strings"},
}

// locateField finds which field of a decoded record breaks the schema.
// It returns an empty field when the record itself is not an object.
func locateField(v any) (field, reason string) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", fmt.Sprintf("expected a tool object, got %s", jsonKind(v))
	}

	for _, f := range requiredFields {
		val, present := obj[f.name]
		if !present {
			return f.name, "required field is missing"
		}
		if !hasKind(val, f.kind) {
			return f.name, fmt.Sprintf("expected %s, got %s", f.kind, jsonKind(val))
		}
		if f.nonEmpty && val.(string) == "" {
			return f.name, "must be a non-empty string"
		}
	}

	for _, f := range optionalFields {
		val, present := obj[f.name]
		if present && !hasKind(val, f.kind) {
			return f.name, fmt.Sprintf("expected %s, got %s", f.kind, jsonKind(val))
		}
	}

	return "", ""
}

// caseVariant finds a key that differs from a record field only in case;
// encoding/json would decode it into that field.
func caseVariant(v any) (field, reason string) {
	obj, ok := v.(map[string]any)
	if !ok {
		return "", ""
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, f := range requiredFields {
			if k != f.name && strings.EqualFold(k, f.name) {
				return k, fmt.Sprintf("key differs from %q only in case", f.name)
			}
		}
		for _, f := range optionalFields {
			if k != f.name && strings.EqualFold(k, f.name) {
				return k, fmt.Sprintf("key differs from %q only in case", f.name)
			}
		}
	}
	return "", ""
}

func hasKind(v any, kind string) bool {
	switch kind {
	case "string":
		_, ok := v.(string)
		return ok
	case "array of strings":
		items, ok := v.([]any)
		if !ok {
			return false
		}
		for _, item := range items {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
