//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

// Package function wraps plain Go functions as callable tools.
package function

import (
	"context"
	"encoding/json"
	"reflect"

	ischema "trpc.group/trpc-go/trpc-conversation-go/internal/schema"
	"trpc.group/trpc-go/trpc-conversation-go/tool"
)

// FunctionTool implements tool.CallableTool for a typed Go function. The
// input and output schemas are derived from the function's argument and
// result types.
type FunctionTool[I, O any] struct {
	name         string
	description  string
	parallelSafe bool
	capabilities []tool.Capability
	inputSchema  *tool.Schema
	outputSchema *tool.Schema
	fn           func(context.Context, I) (O, error)
}

// Option configures a FunctionTool.
type Option func(*options)

type options struct {
	name         string
	description  string
	parallelSafe bool
	capabilities []tool.Capability
	inputSchema  *tool.Schema
}

// WithName sets the name of the function tool.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithDescription sets the description of the function tool.
func WithDescription(description string) Option {
	return func(o *options) {
		o.description = description
	}
}

// WithParallelSafe marks the tool as safe for concurrent dispatch within a
// tool call batch. Default is false: calls are dispatched sequentially.
func WithParallelSafe(parallelSafe bool) Option {
	return func(o *options) {
		o.parallelSafe = parallelSafe
	}
}

// WithCapabilities declares the tool's capabilities. A tool without
// declared capabilities is treated as view-only.
func WithCapabilities(caps ...tool.Capability) Option {
	return func(o *options) {
		o.capabilities = caps
	}
}

// WithInputSchema overrides the generated input schema.
func WithInputSchema(s *tool.Schema) Option {
	return func(o *options) {
		o.inputSchema = s
	}
}

// NewFunctionTool creates a tool from fn. The input type I is unmarshaled
// from the model's JSON arguments; the result O is the observation payload.
func NewFunctionTool[I, O any](fn func(context.Context, I) (O, error), opts ...Option) *FunctionTool[I, O] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	inputSchema := o.inputSchema
	if inputSchema == nil {
		var emptyI I
		inputSchema = ischema.Generate(reflect.TypeOf(emptyI))
	}
	var emptyO O
	outputSchema := ischema.Generate(reflect.TypeOf(emptyO))

	return &FunctionTool[I, O]{
		name:         o.name,
		description:  o.description,
		parallelSafe: o.parallelSafe,
		capabilities: o.capabilities,
		inputSchema:  inputSchema,
		outputSchema: outputSchema,
		fn:           fn,
	}
}

// Call executes the function with the provided JSON arguments.
func (ft *FunctionTool[I, O]) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	var input I
	if len(jsonArgs) > 0 {
		if err := json.Unmarshal(jsonArgs, &input); err != nil {
			return nil, err
		}
	}
	return ft.fn(ctx, input)
}

// Declaration returns the tool's declaration information.
func (ft *FunctionTool[I, O]) Declaration() *tool.Declaration {
	return &tool.Declaration{
		Name:         ft.name,
		Description:  ft.description,
		InputSchema:  ft.inputSchema,
		OutputSchema: ft.outputSchema,
		ParallelSafe: ft.parallelSafe,
		Capabilities: ft.capabilities,
	}
}
