// CLAUDE:SUMMARY JSON-Schema-shaped argument declarations and boundary validation for tool calls.
package tool

import (
	"fmt"
	"sort"
)

// Schema declares a tool's argument contract in the JSON-Schema object form
// MCP clients expect: property types, optional enums, required names.
type Schema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single argument.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ObjectSchema builds an object schema from properties and required names.
func ObjectSchema(props map[string]Property, required ...string) Schema {
	return Schema{Type: "object", Properties: props, Required: required}
}

// ValidationError reports a tool-call argument that violates the declared
// schema.
type ValidationError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: argument %q %s", e.Tool, e.Field, e.Reason)
}

// Validate checks name-based call arguments against the schema: required
// names present, declared types matched, enum membership held, no
// undeclared keys. Arguments are checked in sorted key order so the
// reported violation is deterministic.
func (s Schema) Validate(toolName string, args Args) error {
	for _, req := range s.Required {
		if _, ok := args[req]; !ok {
			return &ValidationError{Tool: toolName, Field: req, Reason: "is required"}
		}
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		prop, ok := s.Properties[key]
		if !ok {
			return &ValidationError{Tool: toolName, Field: key, Reason: "is not a declared argument"}
		}
		if reason := checkType(prop, args[key]); reason != "" {
			return &ValidationError{Tool: toolName, Field: key, Reason: reason}
		}
	}
	return nil
}

func checkType(prop Property, val any) string {
	switch prop.Type {
	case "string":
		s, ok := val.(string)
		if !ok {
			return "must be a string"
		}
		if len(prop.Enum) > 0 && !contains(prop.Enum, s) {
			return fmt.Sprintf("must be one of %v", prop.Enum)
		}
	case "integer":
		if _, ok := asInt64(val); !ok {
			return "must be an integer"
		}
	case "number":
		switch val.(type) {
		case int, int64, float64:
		default:
			return "must be a number"
		}
	case "boolean":
		if _, ok := val.(bool); !ok {
			return "must be a boolean"
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
