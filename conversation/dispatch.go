//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-conversation-go/event"
	"trpc.group/trpc-go/trpc-conversation-go/log"
	"trpc.group/trpc-go/trpc-conversation-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-conversation-go/tool"
)

// pendingCall is one validated tool call awaiting dispatch.
type pendingCall struct {
	actionID   string
	toolCallID string
	toolName   string
	args       json.RawMessage
	tool       tool.CallableTool
}

// dispatch executes a batch of tool calls and returns their observation
// events in batch order. The batch runs concurrently only when parallel
// dispatch is enabled and every tool in it declares itself parallel safe;
// otherwise calls run sequentially in batch order.
func (c *Controller) dispatch(ctx context.Context, calls []pendingCall) []event.Event {
	if len(calls) == 0 {
		return nil
	}
	results := make([]event.Event, len(calls))
	if c.opts.parallelToolCalls && len(calls) > 1 && allParallelSafe(calls) {
		var wg sync.WaitGroup
		for i := range calls {
			wg.Add(1)
			i := i
			task := func() {
				defer wg.Done()
				results[i] = c.executeCall(ctx, calls[i])
			}
			if err := ants.Submit(task); err != nil {
				log.Warnf("conversation: goroutine pool rejected tool call, running inline: %v", err)
				task()
			}
		}
		wg.Wait()
		return results
	}
	for i := range calls {
		results[i] = c.executeCall(ctx, calls[i])
	}
	return results
}

func allParallelSafe(calls []pendingCall) bool {
	for i := range calls {
		if !calls[i].tool.Declaration().ParallelSafe {
			return false
		}
	}
	return true
}

// executeCall runs one tool call and converts its outcome to an
// observation. Tool failures never fail the step; they are reported to the
// model as failed observations.
func (c *Controller) executeCall(ctx context.Context, call pendingCall) event.Event {
	ctx, span := trace.Tracer.Start(ctx, "conversation.tool",
		oteltrace.WithAttributes(attribute.String("tool.name", call.toolName)))
	defer span.End()

	obs := event.Observation{
		ActionID:   call.actionID,
		ToolCallID: call.toolCallID,
		ToolName:   call.toolName,
	}
	if c.opts.readOnly && call.tool.Declaration().Edits() {
		obs.Failed = true
		obs.Content = fmt.Sprintf("tool %q is not permitted in read-only mode", call.toolName)
		return event.NewObservationEvent(obs)
	}
	result, err := call.tool.Call(ctx, call.args)
	if err != nil {
		obs.Failed = true
		obs.Content = err.Error()
		return event.NewObservationEvent(obs)
	}
	content, data, err := projectResult(result)
	if err != nil {
		obs.Failed = true
		obs.Content = fmt.Sprintf("tool %q returned an unserializable result: %v", call.toolName, err)
		return event.NewObservationEvent(obs)
	}
	obs.Content = content
	obs.Data = data
	return event.NewObservationEvent(obs)
}

// projectResult renders a tool result as observation content. Strings pass
// through, Stringers render themselves, anything else is JSON-encoded and
// also kept as structured data.
func projectResult(v any) (content string, data json.RawMessage, err error) {
	switch r := v.(type) {
	case nil:
		return "", nil, nil
	case string:
		return r, nil, nil
	case []byte:
		return string(r), nil, nil
	case json.RawMessage:
		return string(r), r, nil
	case fmt.Stringer:
		return r.String(), nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	return string(raw), raw, nil
}
