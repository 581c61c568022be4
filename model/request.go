//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"encoding/json"

	"trpc.group/trpc-go/trpc-conversation-go/tool"
)

// Role represents the role of a message author.
type Role string

// Role constants for message authors.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	default:
		return false
	}
}

// ContentType identifies the type of a content part.
type ContentType string

// Content type constants.
const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

// ContentPart is one typed piece of message content.
type ContentPart struct {
	Type ContentType `json:"type"`
	// Text is set when Type is ContentTypeText.
	Text string `json:"text,omitempty"`
	// ImageURL is set when Type is ContentTypeImage. It may be a regular
	// URL or a data URL carrying base64-encoded bytes.
	ImageURL string `json:"image_url,omitempty"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: ContentTypeText, Text: text}
}

// NewImagePart creates an image content part referencing the given URL.
func NewImagePart(url string) ContentPart {
	return ContentPart{Type: ContentTypeImage, ImageURL: url}
}

// Message represents a single message in a conversation.
type Message struct {
	// Role is the role of the message author.
	Role Role `json:"role"`

	// Content is the plain-text content of the message. For assistant
	// messages carrying tool calls this is the model's free-text thought.
	Content string `json:"content,omitempty"`

	// ContentParts holds typed content when the message is not plain text.
	// Content and ContentParts may both be set; Content renders first.
	ContentParts []ContentPart `json:"content_parts,omitempty"`

	// ToolCalls holds the structured tool calls of an assistant message.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID pairs a tool message with the assistant tool call it
	// answers. Only set when Role is RoleTool.
	ToolCallID string `json:"tool_call_id,omitempty"`

	// ToolName is the name of the tool that produced a tool message.
	ToolName string `json:"name,omitempty"`
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewToolMessage creates a new tool result message answering toolCallID.
func NewToolMessage(toolCallID, toolName, content string) Message {
	return Message{
		Role:       RoleTool,
		Content:    content,
		ToolCallID: toolCallID,
		ToolName:   toolName,
	}
}

// ToolCall represents one structured tool call emitted by the model.
type ToolCall struct {
	// ID is the provider-assigned identifier echoed back in the paired
	// tool result message.
	ID string `json:"id"`

	// Name is the name of the tool to invoke.
	Name string `json:"name"`

	// Arguments is the JSON-encoded arguments object.
	Arguments json.RawMessage `json:"arguments"`
}

// GenerationConfig contains configuration for text generation.
type GenerationConfig struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens *int `json:"max_tokens,omitempty"`

	// Temperature controls randomness (0.0 to 2.0).
	Temperature *float64 `json:"temperature,omitempty"`
}

// Request is the request to the model.
type Request struct {
	// Messages is the conversation history projected from the event log.
	Messages []Message `json:"messages"`

	// Tools lists the declarations of the tools exposed to the model for
	// this request. Declarations are not serialized with the request body;
	// adapters translate them into provider formats.
	Tools []*tool.Declaration `json:"-"`

	// GenerationConfig contains the generation parameters.
	GenerationConfig `json:",inline"`
}
