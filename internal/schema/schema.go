//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

// Package schema derives JSON schemas from Go types for tool declarations.
// Reflection is confined to declaration generation; argument validation in
// package tool never uses it.
package schema

import (
	"reflect"
	"strings"

	"trpc.group/trpc-go/trpc-conversation-go/tool"
)

// Generate produces a JSON schema describing t. Struct fields map to
// object properties using their json tags; non-pointer fields without
// omitempty are required. Pointer fields are optional.
func Generate(t reflect.Type) *tool.Schema {
	if t == nil {
		return &tool.Schema{Type: "object"}
	}
	if t.Kind() == reflect.Ptr {
		return Generate(t.Elem())
	}
	if t.Kind() != reflect.Struct {
		return fieldSchema(t)
	}

	s := &tool.Schema{
		Type:       "object",
		Properties: map[string]*tool.Schema{},
	}
	var required []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := parseJSONTag(field)
		if skip {
			continue
		}
		fs := fieldSchema(field.Type)
		if desc := field.Tag.Get("description"); desc != "" {
			fs.Description = desc
		}
		s.Properties[name] = fs
		if field.Type.Kind() != reflect.Ptr && !omitEmpty {
			required = append(required, name)
		}
	}
	if len(required) > 0 {
		s.Required = required
	}
	return s
}

func parseJSONTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	name = field.Name
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, p := range parts[1:] {
		if p == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

func fieldSchema(t reflect.Type) *tool.Schema {
	switch t.Kind() {
	case reflect.String:
		return &tool.Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &tool.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &tool.Schema{Type: "number"}
	case reflect.Bool:
		return &tool.Schema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &tool.Schema{Type: "array", Items: fieldSchema(t.Elem())}
	case reflect.Map:
		return &tool.Schema{Type: "object", AdditionalProperties: fieldSchema(t.Elem())}
	case reflect.Ptr:
		return fieldSchema(t.Elem())
	case reflect.Struct:
		return Generate(t)
	default:
		return &tool.Schema{Type: "object"}
	}
}
