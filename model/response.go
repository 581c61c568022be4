//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package model

import "time"

// Usage represents token usage information.
type Usage struct {
	// PromptTokens is the number of tokens in the prompt.
	PromptTokens int `json:"prompt_tokens"`

	// CompletionTokens is the number of tokens in the completion.
	CompletionTokens int `json:"completion_tokens"`

	// TotalTokens is the total number of tokens in the response.
	TotalTokens int `json:"total_tokens"`
}

// Response is the response from the model. Exactly one of the following
// outcomes applies:
//
//   - Refusal is non-empty: the model declined to answer.
//   - ToolCalls is non-empty: the model requested tool invocations;
//     Content carries the accompanying free-text thought, possibly empty.
//   - Otherwise: Content is the model's final message for this turn.
type Response struct {
	// ID is the provider-assigned identifier for this response.
	ID string `json:"id"`

	// Model is the model that generated the response.
	Model string `json:"model"`

	// Created is the Unix timestamp when the response was created.
	Created int64 `json:"created"`

	// Content is the assistant text.
	Content string `json:"content,omitempty"`

	// ToolCalls holds the structured tool calls, in the order the model
	// emitted them.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// Refusal carries the model's stated reason when it declined.
	Refusal string `json:"refusal,omitempty"`

	// Usage contains token usage information when the provider reports it.
	Usage *Usage `json:"usage,omitempty"`

	// Timestamp is when this response was received.
	Timestamp time.Time `json:"timestamp"`
}

// IsFinal reports whether the response is the model's final message for the
// conversation turn: no tool calls and no refusal.
func (rsp *Response) IsFinal() bool {
	return rsp != nil && rsp.Refusal == "" && len(rsp.ToolCalls) == 0
}

// Clone creates a deep copy of the response.
func (rsp *Response) Clone() *Response {
	if rsp == nil {
		return nil
	}
	clone := *rsp
	if len(rsp.ToolCalls) > 0 {
		clone.ToolCalls = make([]ToolCall, len(rsp.ToolCalls))
		for i, tc := range rsp.ToolCalls {
			clone.ToolCalls[i] = ToolCall{
				ID:        tc.ID,
				Name:      tc.Name,
				Arguments: append([]byte(nil), tc.Arguments...),
			}
		}
	}
	if rsp.Usage != nil {
		u := *rsp.Usage
		clone.Usage = &u
	}
	return &clone
}
