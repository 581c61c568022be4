//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package tool

import "fmt"

// ValidationError reports that tool call arguments failed schema
// validation. The runtime surfaces it to the model as an agent error event
// so the model can observe the failure and retry.
type ValidationError struct {
	// Tool is the name of the tool whose arguments were rejected.
	Tool string

	// Err is the underlying schema validation error.
	Err error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("arguments for tool %q failed schema validation: %v", e.Tool, e.Err)
}

// Unwrap returns the underlying validation error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UnknownToolError reports a tool call naming a tool that is not
// registered.
type UnknownToolError struct {
	// Name is the unknown tool name.
	Name string
}

// Error implements the error interface.
func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("no such tool: %q", e.Name)
}
