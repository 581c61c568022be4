//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package function

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-conversation-go/tool"
)

type echoArgs struct {
	Text   string `json:"text" description:"Text to echo"`
	Repeat int    `json:"repeat,omitempty"`
}

type echoResult struct {
	Echoed string `json:"echoed"`
}

func echo(_ context.Context, args echoArgs) (echoResult, error) {
	if args.Text == "" {
		return echoResult{}, fmt.Errorf("text is required")
	}
	return echoResult{Echoed: args.Text}, nil
}

func TestNewFunctionTool_Declaration(t *testing.T) {
	ft := NewFunctionTool(echo,
		WithName("echo"),
		WithDescription("Echo the input text."),
		WithParallelSafe(true),
		WithCapabilities(tool.CapabilityView),
	)
	decl := ft.Declaration()

	assert.Equal(t, "echo", decl.Name)
	assert.Equal(t, "Echo the input text.", decl.Description)
	assert.True(t, decl.ParallelSafe)
	assert.Equal(t, []tool.Capability{tool.CapabilityView}, decl.Capabilities)

	require.NotNil(t, decl.InputSchema)
	assert.Equal(t, "object", decl.InputSchema.Type)
	require.Contains(t, decl.InputSchema.Properties, "text")
	assert.Equal(t, "string", decl.InputSchema.Properties["text"].Type)
	assert.Equal(t, "Text to echo", decl.InputSchema.Properties["text"].Description)
	// Non-omitempty fields are required; omitempty fields are not.
	assert.Contains(t, decl.InputSchema.Required, "text")
	assert.NotContains(t, decl.InputSchema.Required, "repeat")
}

func TestFunctionTool_Call(t *testing.T) {
	ft := NewFunctionTool(echo, WithName("echo"))

	t.Run("Success", func(t *testing.T) {
		result, err := ft.Call(context.Background(), []byte(`{"text":"hello"}`))
		require.NoError(t, err)
		assert.Equal(t, echoResult{Echoed: "hello"}, result)
	})

	t.Run("FunctionError", func(t *testing.T) {
		_, err := ft.Call(context.Background(), []byte(`{}`))
		assert.Error(t, err)
	})

	t.Run("MalformedArguments", func(t *testing.T) {
		_, err := ft.Call(context.Background(), []byte(`{"text":`))
		assert.Error(t, err)
	})
}

func TestFunctionTool_ValidatesAgainstGeneratedSchema(t *testing.T) {
	ft := NewFunctionTool(echo, WithName("echo"))
	decl := ft.Declaration()

	assert.NoError(t, tool.ValidateArguments(decl, []byte(`{"text":"hi"}`)))
	assert.Error(t, tool.ValidateArguments(decl, []byte(`{"repeat":2}`)))
	assert.Error(t, tool.ValidateArguments(decl, []byte(`{"text":42}`)))
}

func TestFunctionTool_InputSchemaOverride(t *testing.T) {
	custom := &tool.Schema{Type: "object"}
	ft := NewFunctionTool(echo, WithName("echo"), WithInputSchema(custom))
	assert.Same(t, custom, ft.Declaration().InputSchema)
}
