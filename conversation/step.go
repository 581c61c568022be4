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
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"trpc.group/trpc-go/trpc-conversation-go/event"
	"trpc.group/trpc-go/trpc-conversation-go/log"
	"trpc.group/trpc-go/trpc-conversation-go/model"
	"trpc.group/trpc-go/trpc-conversation-go/telemetry/trace"
	"trpc.group/trpc-go/trpc-conversation-go/tool"
)

// maxCompletionAttempts bounds the retry loop around one model call.
const maxCompletionAttempts = 5

func newCompletionBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.Multiplier = 2
	bo.MaxInterval = 30 * time.Second
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0
	bo.Reset()
	return bo
}

// step executes one iteration of the agent loop: condense history, project
// the view to messages, call the model, and either record the agent's
// answer or dispatch its tool calls and record the observations. The
// controller's mutex is held only around log access, never across the model
// call or tool execution.
func (c *Controller) step(ctx context.Context) error {
	ctx, span := trace.Tracer.Start(ctx, "conversation.step")
	defer span.End()

	stepCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.mu.Lock()
	c.stepCancel = cancel
	c.stepActive = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.stepCancel = nil
		c.stepActive = false
		pending := c.pending
		c.pending = nil
		for i := range pending {
			if err := c.state.append(pending[i]); err != nil {
				log.Errorf("conversation: failed to append deferred message: %v", err)
			}
		}
		if len(pending) > 0 {
			// A drained user message reopens the task even if this
			// step's answer just finished it.
			c.state.finished = false
		}
		c.mu.Unlock()
		c.flush()
	}()

	if err := c.condense(ctx); err != nil {
		return err
	}
	c.flush()

	rsp, reqLen, err := c.complete(stepCtx)
	if err != nil {
		if stepCtx.Err() != nil {
			// Cancellation is finalized by the run loop, not recorded as
			// an agent error.
			return stepCtx.Err()
		}
		c.appendAndFlush(event.NewAgentErrorEvent(event.AgentError{
			Message: fmt.Sprintf("The model request failed: %v", err),
		}))
		return fmt.Errorf("model completion failed: %w", err)
	}

	c.mu.Lock()
	c.state.steps++
	c.mu.Unlock()

	if rsp.Refusal != "" {
		// A refusal is recoverable: the model sees it as user input on
		// the next step and the task is not finished.
		c.appendAndFlush(event.NewAgentErrorEvent(event.AgentError{
			Message: "The model refused to respond: " + rsp.Refusal,
		}))
		return nil
	}
	if len(rsp.ToolCalls) == 0 {
		return c.recordAnswer(rsp, reqLen)
	}
	return c.executeToolCalls(stepCtx, rsp)
}

// condense consults the condenser on the current view and appends its
// rewrite request, if any. The condenser runs outside the lock; it may be
// an LLM summarizer with arbitrary latency.
func (c *Controller) condense(ctx context.Context) error {
	c.mu.Lock()
	view := event.View(c.state.events)
	c.mu.Unlock()
	ce, err := c.opts.condenser.Condense(ctx, view)
	if err != nil {
		return fmt.Errorf("condenser failed: %w", err)
	}
	if ce == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.append(*ce)
}

// complete calls the model, retrying retryable transport failures with
// exponential backoff. The request is rebuilt from the log on every
// attempt, so messages that arrived while backing off are included. The
// returned length is the log size the final request was projected from.
func (c *Controller) complete(ctx context.Context) (*model.Response, int, error) {
	bo := newCompletionBackOff()
	var lastErr error
	var reqLen int
	for attempt := 1; attempt <= maxCompletionAttempts; attempt++ {
		var req *model.Request
		req, reqLen = c.buildRequest()
		rsp, err := c.client.Complete(ctx, req)
		if err == nil {
			if rsp == nil {
				return nil, reqLen, fmt.Errorf("model %q returned no response", c.client.Info().Name)
			}
			return rsp, reqLen, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, reqLen, ctx.Err()
		}
		if !model.IsRetryable(err) || attempt == maxCompletionAttempts {
			return nil, reqLen, lastErr
		}
		wait := bo.NextBackOff()
		log.Warnf("conversation: retryable model failure (attempt %d/%d), backing off %s: %v",
			attempt, maxCompletionAttempts, wait, err)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, reqLen, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, reqLen, lastErr
}

func (c *Controller) buildRequest() (*model.Request, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := event.View(c.state.events)
	return &model.Request{
		Messages: event.ToMessages(view),
		Tools:    c.opts.registry.List(),
	}, c.state.Len()
}

// recordAnswer appends the model's plain answer. The task is finished
// unless a user message arrived after the request was projected; that
// message was invisible to the model and the next step must answer it.
func (c *Controller) recordAnswer(rsp *model.Response, reqLen int) error {
	msg := event.NewMessageEvent(event.SourceAgent, event.Message{
		Role:    model.RoleAssistant,
		Content: []model.ContentPart{model.NewTextPart(rsp.Content)},
	})
	c.mu.Lock()
	err := c.state.append(msg)
	if err == nil && !c.userMessageSinceLocked(reqLen) {
		c.state.finished = true
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.flush()
	return nil
}

func (c *Controller) userMessageSinceLocked(since int) bool {
	for i := since; i < c.state.Len(); i++ {
		e := c.state.events[i]
		if e.Kind == event.KindMessage && e.Source == event.SourceUser {
			return true
		}
	}
	return false
}

// executeToolCalls validates and records the response's tool calls, then
// dispatches the valid ones and records their observations. Invalid calls
// (unknown tool, schema violation) become agent errors instead of actions,
// so the projected assistant message only lists the calls that will be
// answered.
func (c *Controller) executeToolCalls(ctx context.Context, rsp *model.Response) error {
	batchID := event.NewBatchID()

	var pending []pendingCall
	var errs []event.Event
	c.mu.Lock()
	for _, tc := range rsp.ToolCalls {
		t, ok := c.opts.registry.Lookup(tc.Name)
		if !ok {
			errs = append(errs, event.NewAgentErrorEvent(event.AgentError{
				Message:    fmt.Sprintf("Tool call failed: no such tool: %q", tc.Name),
				ToolCallID: tc.ID,
				ToolName:   tc.Name,
			}))
			continue
		}
		if err := tool.ValidateArguments(t.Declaration(), tc.Arguments); err != nil {
			errs = append(errs, event.NewAgentErrorEvent(event.AgentError{
				Message:    "Tool call failed: " + err.Error(),
				ToolCallID: tc.ID,
				ToolName:   tc.Name,
			}))
			continue
		}
		action := event.Action{
			ToolName:   tc.Name,
			Arguments:  tc.Arguments,
			ToolCallID: tc.ID,
			BatchID:    batchID,
		}
		if len(pending) == 0 {
			// The batch projects to one assistant message; the thought
			// rides on its first action.
			action.Thought = rsp.Content
		}
		ae := event.NewActionEvent(action)
		if err := c.state.append(ae); err != nil {
			c.mu.Unlock()
			return err
		}
		pending = append(pending, pendingCall{
			actionID:   ae.ID,
			toolCallID: tc.ID,
			toolName:   tc.Name,
			args:       tc.Arguments,
			tool:       t,
		})
	}
	// Agent errors go after the batch so the actions stay contiguous.
	for i := range errs {
		if err := c.state.append(errs[i]); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.mu.Unlock()
	c.flush()

	if len(pending) == 0 {
		return nil
	}

	observations := c.dispatch(ctx, pending)

	c.mu.Lock()
	late := c.cancelRequested || ctx.Err() != nil
	if late && c.opts.dropLateObservations {
		log.Debugf("conversation: dropping %d observation(s) after cancellation", len(observations))
	} else {
		for i := range observations {
			if late {
				// A result recorded after cancellation is an error even
				// when the tool itself succeeded.
				o := observations[i].Observation
				if !o.Failed {
					o.Failed = true
					o.Content = "the run was cancelled before this result was recorded: " + o.Content
				}
			}
			if err := c.state.append(observations[i]); err != nil {
				c.mu.Unlock()
				return err
			}
		}
	}
	c.mu.Unlock()
	c.flush()
	return nil
}

// appendAndFlush appends one event under the lock and publishes it. Append
// failures on engine-constructed events indicate a bug and are logged.
func (c *Controller) appendAndFlush(e event.Event) {
	c.mu.Lock()
	err := c.state.append(e)
	c.mu.Unlock()
	if err != nil {
		log.Errorf("conversation: failed to append %s event: %v", e.Kind, err)
		return
	}
	c.flush()
}
