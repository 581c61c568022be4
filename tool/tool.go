//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

// Package tool provides tool interfaces, declarations and argument
// validation for the conversation runtime.
package tool

import (
	"context"
)

// Tool is implemented by anything that can describe itself to a model.
type Tool interface {
	// Declaration returns the metadata describing the tool.
	Declaration() *Declaration
}

// CallableTool defines the interface for tools that support calling operations.
type CallableTool interface {
	// Call calls the tool with the provided context and JSON-encoded
	// arguments. The arguments have already been validated against the
	// tool's input schema when invoked through the runtime. Call is
	// expected to be side-effectful and may take arbitrary wall time;
	// implementations should honor ctx cancellation and return early.
	Call(ctx context.Context, jsonArgs []byte) (any, error)

	Tool
}

// Capability describes what a tool is allowed to do to its environment.
// A tool with no declared capabilities is treated as view-only.
type Capability string

// Capability constants.
const (
	// CapabilityView marks tools that only read state.
	CapabilityView Capability = "view"
	// CapabilityEdit marks tools that mutate state. Dispatching such a
	// tool in a read-only conversation yields a failed observation
	// instead of an invocation.
	CapabilityEdit Capability = "edit"
)

// Declaration describes the metadata of a tool, such as its name,
// description, and expected arguments.
type Declaration struct {
	// Name is the unique identifier of the tool.
	Name string `json:"name"`

	// Description explains the tool's purpose and functionality.
	Description string `json:"description"`

	// InputSchema defines the expected input for the tool in JSON schema format.
	InputSchema *Schema `json:"inputSchema"`

	// OutputSchema defines the expected output for the tool in JSON schema format.
	OutputSchema *Schema `json:"outputSchema,omitempty"`

	// ParallelSafe indicates the tool has no ordering dependency on other
	// calls of the same batch and may be dispatched concurrently.
	ParallelSafe bool `json:"parallelSafe,omitempty"`

	// Capabilities lists what the tool may do. Empty means view-only.
	Capabilities []Capability `json:"capabilities,omitempty"`
}

// Edits reports whether the declaration claims the edit capability.
func (d *Declaration) Edits() bool {
	for _, c := range d.Capabilities {
		if c == CapabilityEdit {
			return true
		}
	}
	return false
}

// Schema represents the structure of JSON Schema used for defining
// arguments and responses. It follows the JSON Schema standard, supporting
// various types, properties, and validation rules.
type Schema struct {
	// Type specifies the data type (e.g., "object", "array", "string", "number").
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of the arguments, each with its own schema.
	Properties map[string]*Schema `json:"properties,omitempty"`
	// For array types, defines the schema of items in the array.
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties controls whether properties not defined in
	// Properties are allowed.
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Enum restricts the value to a fixed set.
	Enum []any `json:"enum,omitempty"`
}
