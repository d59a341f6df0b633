// Package tool implements the task tool registry: a fixed set of named,
// schema-described operations that can be dispatched by wire name (external
// callers such as MCP clients) or by kind (internal callers, checked at
// compile time).
package tool

import (
	"fmt"

	"github.com/hazyhaar/taskchat/pkg/kit"
)

// Kind identifies one of the built-in task operations.
type Kind int

const (
	KindAddTask Kind = iota
	KindListTasks
	KindCompleteTask
	KindUpdateTask
	KindDeleteTask
	kindCount // sentinel, keep last
)

// String returns the wire name external callers dispatch with.
func (k Kind) String() string {
	switch k {
	case KindAddTask:
		return "add_task"
	case KindListTasks:
		return "list_tasks"
	case KindCompleteTask:
		return "complete_task"
	case KindUpdateTask:
		return "update_task"
	case KindDeleteTask:
		return "delete_task"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Tool is one registered operation: a kind, the human-readable description
// surfaced to MCP clients, the argument schema, a decoder from keyword
// arguments to the endpoint's request type, and the endpoint itself.
type Tool struct {
	Kind        Kind
	Description string
	Schema      Schema
	Decode      func(args Args) (any, error)
	Endpoint    kit.Endpoint
}

// Name returns the tool's wire name.
func (t Tool) Name() string { return t.Kind.String() }

// Args carries the keyword arguments of a name-based tool call, as decoded
// from JSON. Numeric values therefore arrive as float64.
type Args map[string]any

// GetString returns the string argument under key. The second result is
// false when the key is absent or holds a non-string.
func (a Args) GetString(key string) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}

// GetInt returns the integer argument under key, accepting the int, int64
// and float64 representations JSON decoding produces.
func (a Args) GetInt(key string) (int64, bool) {
	return asInt64(a[key])
}

func asInt64(val any) (int64, bool) {
	switch v := val.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	default:
		return 0, false
	}
}

