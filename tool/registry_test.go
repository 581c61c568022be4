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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool is a minimal CallableTool for registry tests.
type fakeTool struct {
	decl   *Declaration
	result any
	err    error
}

func (f *fakeTool) Declaration() *Declaration { return f.decl }

func (f *fakeTool) Call(ctx context.Context, jsonArgs []byte) (any, error) {
	return f.result, f.err
}

func newFakeTool(name string) *fakeTool {
	return &fakeTool{decl: &Declaration{
		Name:        name,
		Description: "fake tool " + name,
		InputSchema: &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				"path": {Type: "string"},
			},
			Required: []string{"path"},
		},
	}}
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	t.Run("RegisterValidTool", func(t *testing.T) {
		err := registry.Register(newFakeTool("ls"))
		assert.NoError(t, err)

		got, ok := registry.Lookup("ls")
		assert.True(t, ok)
		assert.Equal(t, "ls", got.Declaration().Name)
	})

	t.Run("RegisterNilTool", func(t *testing.T) {
		err := registry.Register(nil)
		assert.Error(t, err)
	})

	t.Run("RegisterEmptyName", func(t *testing.T) {
		err := registry.Register(&fakeTool{decl: &Declaration{}})
		assert.Error(t, err)
	})

	t.Run("RegisterDuplicate", func(t *testing.T) {
		err := registry.Register(newFakeTool("ls"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})
}

func TestRegistry_Overwrite(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeTool("ls")))

	replacement := newFakeTool("ls")
	replacement.decl.Description = "replaced"
	require.NoError(t, registry.Overwrite(replacement))

	got, ok := registry.Lookup("ls")
	require.True(t, ok)
	assert.Equal(t, "replaced", got.Declaration().Description)
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeTool("wc")))
	require.NoError(t, registry.Register(newFakeTool("ls")))
	require.NoError(t, registry.Register(newFakeTool("grep")))

	decls := registry.List()
	require.Len(t, decls, 3)
	assert.Equal(t, "grep", decls[0].Name)
	assert.Equal(t, "ls", decls[1].Name)
	assert.Equal(t, "wc", decls[2].Name)
}

func TestRegistry_Validate(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(newFakeTool("ls")))

	t.Run("ValidArguments", func(t *testing.T) {
		assert.NoError(t, registry.Validate("ls", []byte(`{"path":"/tmp"}`)))
	})

	t.Run("MissingRequiredField", func(t *testing.T) {
		err := registry.Validate("ls", []byte(`{}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "ls", verr.Tool)
	})

	t.Run("WrongType", func(t *testing.T) {
		err := registry.Validate("ls", []byte(`{"path":42}`))
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("UnknownTool", func(t *testing.T) {
		err := registry.Validate("nope", []byte(`{}`))
		var uerr *UnknownToolError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "nope", uerr.Name)
	})
}

func TestDeclaration_Edits(t *testing.T) {
	view := &Declaration{Name: "read", Capabilities: []Capability{CapabilityView}}
	edit := &Declaration{Name: "write", Capabilities: []Capability{CapabilityView, CapabilityEdit}}
	none := &Declaration{Name: "bare"}

	assert.False(t, view.Edits())
	assert.True(t, edit.Edits())
	assert.False(t, none.Edits())
}
