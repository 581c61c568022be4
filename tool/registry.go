//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package tool

import (
	"fmt"
	"sort"
	"sync"
)

// Registry binds tool names to callable tools. Registration is additive;
// re-registering an existing name is an error unless done through
// Overwrite. A registry is safe for concurrent use, though conversations
// expect the tool set to be stable once a conversation has started.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]CallableTool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]CallableTool)}
}

// Register adds a tool to the registry. It returns an error if the tool is
// nil, declares an empty name, or a tool with the same name is already
// registered.
func (r *Registry) Register(t CallableTool) error {
	if t == nil {
		return fmt.Errorf("cannot register nil tool")
	}
	decl := t.Declaration()
	if decl == nil || decl.Name == "" {
		return fmt.Errorf("cannot register tool without a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[decl.Name]; ok {
		return fmt.Errorf("tool %q is already registered", decl.Name)
	}
	r.tools[decl.Name] = t
	return nil
}

// Overwrite adds a tool, replacing any existing registration of the same
// name.
func (r *Registry) Overwrite(t CallableTool) error {
	if t == nil {
		return fmt.Errorf("cannot register nil tool")
	}
	decl := t.Declaration()
	if decl == nil || decl.Name == "" {
		return fmt.Errorf("cannot register tool without a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[decl.Name] = t
	return nil
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (CallableTool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns the declarations of all registered tools, sorted by name.
func (r *Registry) List() []*Declaration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	decls := make([]*Declaration, 0, len(r.tools))
	for _, t := range r.tools {
		decls = append(decls, t.Declaration())
	}
	sort.Slice(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
	return decls
}

// Validate validates JSON-encoded arguments for the named tool. It returns
// *UnknownToolError when the name is not registered and *ValidationError
// when the arguments fail the tool's input schema.
func (r *Registry) Validate(name string, jsonArgs []byte) error {
	t, ok := r.Lookup(name)
	if !ok {
		return &UnknownToolError{Name: name}
	}
	return ValidateArguments(t.Declaration(), jsonArgs)
}

// defaultRegistry backs the package-level convenience functions.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry. It is a convenience wrapper
// for programs with a single conversation controller; prefer constructing
// a per-controller registry with NewRegistry and injecting it.
func Default() *Registry {
	return defaultRegistry
}
