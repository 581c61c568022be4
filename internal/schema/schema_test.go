//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package schema

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nested struct {
	Depth int `json:"depth"`
}

type sample struct {
	Name     string    `json:"name" description:"The name"`
	Count    int       `json:"count,omitempty"`
	Ratio    *float64  `json:"ratio"`
	Tags     []string  `json:"tags"`
	Inner    nested    `json:"inner"`
	Labels   map[string]string `json:"labels,omitempty"`
	Enabled  bool      `json:"enabled"`
	internal string
	Skipped  string    `json:"-"`
}

func TestGenerate_Struct(t *testing.T) {
	s := Generate(reflect.TypeOf(sample{}))

	require.Equal(t, "object", s.Type)
	assert.Equal(t, "string", s.Properties["name"].Type)
	assert.Equal(t, "The name", s.Properties["name"].Description)
	assert.Equal(t, "integer", s.Properties["count"].Type)
	assert.Equal(t, "number", s.Properties["ratio"].Type)
	assert.Equal(t, "array", s.Properties["tags"].Type)
	assert.Equal(t, "string", s.Properties["tags"].Items.Type)
	assert.Equal(t, "object", s.Properties["inner"].Type)
	assert.Equal(t, "integer", s.Properties["inner"].Properties["depth"].Type)
	assert.Equal(t, "boolean", s.Properties["enabled"].Type)

	assert.NotContains(t, s.Properties, "internal")
	assert.NotContains(t, s.Properties, "Skipped")

	// Required: exported, non-pointer, non-omitempty fields.
	assert.ElementsMatch(t, []string{"name", "tags", "inner", "enabled"}, s.Required)
}

func TestGenerate_NonStruct(t *testing.T) {
	assert.Equal(t, "string", Generate(reflect.TypeOf("")).Type)
	assert.Equal(t, "object", Generate(nil).Type)

	ptr := Generate(reflect.TypeOf(&nested{}))
	assert.Equal(t, "object", ptr.Type)
	assert.Contains(t, ptr.Properties, "depth")
}

func TestGenerate_EmptyStruct(t *testing.T) {
	s := Generate(reflect.TypeOf(struct{}{}))
	assert.Equal(t, "object", s.Type)
	assert.Empty(t, s.Required)
}
