// Package agent defines the static agent graph: immutable definitions
// (instructions plus permitted tool names) looked up by name in a registry
// validated once at startup. Agents are plain records, not behaviors; the
// orchestrator interprets them.
package agent

import (
	"fmt"
	"strings"
)

// handoffPrefix is the naming convention for handoff pseudo-tools.
const handoffPrefix = "handoff_to_"

// HandoffTarget parses a handoff_to_<agent> tool name and returns the target
// agent name. ok is false for ordinary tool names.
func HandoffTarget(toolName string) (target string, ok bool) {
	target, ok = strings.CutPrefix(toolName, handoffPrefix)
	if !ok || target == "" {
		return "", false
	}
	return target, true
}

// Definition is an immutable, process-wide agent record loaded at startup.
// Tools lists the names the agent may call, in the order they are exposed to
// the model; handoff entries follow the handoff_to_<agent> convention.
type Definition struct {
	Name         string
	Instructions string
	Tools        []string
}

// Allows reports whether the definition permits calling the named tool.
func (d Definition) Allows(toolName string) bool {
	for _, t := range d.Tools {
		if t == toolName {
			return true
		}
	}
	return false
}

// Registry maps agent names to definitions and knows the entry agent every
// new turn starts at. It is immutable after construction.
type Registry struct {
	defs  map[string]Definition
	order []string
	entry string
}

// NewRegistry builds a registry from the given definitions. The entry agent
// must be among them and names must be unique.
func NewRegistry(entry string, defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition), entry: entry}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("agent definition with empty name")
		}
		if _, exists := r.defs[d.Name]; exists {
			return nil, fmt.Errorf("duplicate agent name %q", d.Name)
		}
		r.defs[d.Name] = d
		r.order = append(r.order, d.Name)
	}
	if _, ok := r.defs[entry]; !ok {
		return nil, fmt.Errorf("entry agent %q is not registered", entry)
	}
	return r, nil
}

// Entry returns the name of the front-facing agent every turn starts at.
func (r *Registry) Entry() string { return r.entry }

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// Names returns all agent names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
