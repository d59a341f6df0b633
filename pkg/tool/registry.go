package tool

import (
	"context"
	"fmt"
)

// Registry holds the tool set. It is immutable after New and safe for
// concurrent dispatch without locking.
type Registry struct {
	byName map[string]*Tool
	byKind map[Kind]*Tool
}

// DuplicateNameError reports two tools registered under the same wire name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("tool %q already registered", e.Name)
}

// NotFoundError reports a dispatch against a name no tool carries. The tool
// set is fixed at construction, so hitting this from internal code is a
// programming error; external callers get it back as the tool result.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tool %q not found", e.Name)
}

// New builds a registry from the given tools, rejecting duplicate names.
func New(tools ...Tool) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Tool, len(tools)),
		byKind: make(map[Kind]*Tool, len(tools)),
	}
	for i := range tools {
		t := &tools[i]
		name := t.Name()
		if _, exists := r.byName[name]; exists {
			return nil, &DuplicateNameError{Name: name}
		}
		r.byName[name] = t
		r.byKind[t.Kind] = t
	}
	return r, nil
}

// Dispatch executes a tool by wire name with keyword arguments. This is the
// external boundary: args are validated against the declared schema and
// decoded before the endpoint runs. Endpoint errors propagate unchanged so
// callers can distinguish domain failures from dispatch failures.
func (r *Registry) Dispatch(ctx context.Context, name string, args Args) (any, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	if err := t.Schema.Validate(name, args); err != nil {
		return nil, err
	}
	req, err := t.Decode(args)
	if err != nil {
		return nil, err
	}
	return t.Endpoint(ctx, req)
}

// Call executes a tool by kind with an already-typed request. Internal
// callers use this path; schema validation is not repeated.
func (r *Registry) Call(ctx context.Context, kind Kind, req any) (any, error) {
	t, ok := r.byKind[kind]
	if !ok {
		return nil, &NotFoundError{Name: kind.String()}
	}
	return t.Endpoint(ctx, req)
}

// Tools returns the registered tools in kind order, for deterministic
// listings.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.byKind))
	for k := Kind(0); k < kindCount; k++ {
		if t, ok := r.byKind[k]; ok {
			out = append(out, *t)
		}
	}
	return out
}
