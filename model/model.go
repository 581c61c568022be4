//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

// Package model provides the LLM client contract used by the conversation
// runtime. It defines provider-agnostic request and response types so the
// step engine can invoke models without coupling to specific SDKs.
package model

import "context"

// Client is the interface the step engine uses to talk to a language model.
//
// Error Handling Strategy:
// This interface uses a dual-layer error handling approach:
//
// 1. Function-level errors (returned as `error`):
//   - Transport failures that prevent or abort communication.
//   - Retryable failures (rate limits, upstream overload) are reported as
//     *TransportError with Retryable set, so callers can back off and retry.
//   - Context cancellation is propagated as the context error.
//
// 2. Response-level outcomes (fields on Response):
//   - The model answered with text and/or tool calls (Content, ToolCalls).
//   - The model declined to answer (Refusal).
//
// Implementations must honor ctx cancellation by aborting the underlying
// transport; this is the cancel token of the runtime.
type Client interface {
	// Complete sends one chat completion request and returns the model's
	// response. The returned response is never nil when error is nil.
	Complete(ctx context.Context, request *Request) (*Response, error)

	// Info returns basic information about the model.
	Info() Info
}

// Info contains basic information about a model Client.
type Info struct {
	Name string
}
