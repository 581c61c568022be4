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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateArguments(t *testing.T) {
	decl := &Declaration{
		Name: "calculate",
		InputSchema: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"a":  {Type: "number"},
				"b":  {Type: "number"},
				"op": {Type: "string", Enum: []any{"add", "sub"}},
			},
			Required: []string{"a", "b", "op"},
		},
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, ValidateArguments(decl, []byte(`{"a":1,"b":2,"op":"add"}`)))
	})

	t.Run("EnumViolation", func(t *testing.T) {
		err := ValidateArguments(decl, []byte(`{"a":1,"b":2,"op":"pow"}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "calculate", verr.Tool)
	})

	t.Run("NotAnObject", func(t *testing.T) {
		err := ValidateArguments(decl, []byte(`[1,2]`))
		assert.Error(t, err)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		err := ValidateArguments(decl, []byte(`{"a":`))
		assert.Error(t, err)
	})

	t.Run("EmptyArgsTreatedAsEmptyObject", func(t *testing.T) {
		open := &Declaration{Name: "noop", InputSchema: &Schema{Type: "object"}}
		assert.NoError(t, ValidateArguments(open, nil))
	})

	t.Run("NilSchemaAcceptsAll", func(t *testing.T) {
		bare := &Declaration{Name: "anything"}
		assert.NoError(t, ValidateArguments(bare, []byte(`{"whatever":true}`)))
	})
}

func TestValidateArguments_CachesCompiledSchema(t *testing.T) {
	decl := &Declaration{
		Name: "echo",
		InputSchema: &Schema{
			Type:       "object",
			Properties: map[string]*Schema{"text": {Type: "string"}},
		},
	}
	require.NoError(t, ValidateArguments(decl, []byte(`{"text":"a"}`)))

	_, ok := compiledSchemas.Load(decl.InputSchema)
	assert.True(t, ok)

	// Repeated validation reuses the cached compilation.
	assert.NoError(t, ValidateArguments(decl, []byte(`{"text":"b"}`)))
}
