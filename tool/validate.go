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
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas caches compiled schemas keyed by declaration schema
// pointer. Declarations are immutable after registration, so pointer
// identity is a safe cache key.
var compiledSchemas sync.Map // *Schema -> *jsonschema.Schema

// ValidateArguments validates JSON-encoded arguments against the
// declaration's input schema. A nil input schema accepts any arguments.
// Empty arguments are treated as an empty object, which some providers
// emit for zero-parameter tools.
func ValidateArguments(decl *Declaration, jsonArgs []byte) error {
	if decl == nil || decl.InputSchema == nil {
		return nil
	}
	compiled, err := compileSchema(decl.InputSchema)
	if err != nil {
		return fmt.Errorf("compile input schema for tool %q: %w", decl.Name, err)
	}
	if len(bytes.TrimSpace(jsonArgs)) == 0 {
		jsonArgs = []byte("{}")
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonArgs))
	if err != nil {
		return &ValidationError{Tool: decl.Name, Err: fmt.Errorf("arguments are not valid JSON: %w", err)}
	}
	if err := compiled.Validate(instance); err != nil {
		return &ValidationError{Tool: decl.Name, Err: err}
	}
	return nil
}

func compileSchema(s *Schema) (*jsonschema.Schema, error) {
	if cached, ok := compiledSchemas.Load(s); ok {
		return cached.(*jsonschema.Schema), nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	compiledSchemas.Store(s, compiled)
	return compiled, nil
}
