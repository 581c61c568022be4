//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

// Package conversation implements the conversation controller: an event-log
// backed agent loop that alternates model calls and tool dispatch until the
// agent finishes its task. All mutable state lives behind the controller's
// mutex; the lock is released while the model or a tool is executing, so
// messages can arrive and the conversation can be paused or cancelled while
// a step is in flight.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"trpc.group/trpc-go/trpc-conversation-go/event"
	"trpc.group/trpc-go/trpc-conversation-go/log"
	"trpc.group/trpc-go/trpc-conversation-go/model"
)

// Status is the lifecycle state of a controller.
type Status string

// Status constants.
const (
	// StatusIdle means no run is in flight; SendMessage and Run are both
	// accepted.
	StatusIdle Status = "idle"
	// StatusRunning means a run is executing steps.
	StatusRunning Status = "running"
	// StatusPaused means a run is in flight but parked before its next
	// step. An in-flight model call or tool keeps executing.
	StatusPaused Status = "paused"
	// StatusErrored means the last run failed with an unrecoverable
	// error. Reset returns the conversation to idle.
	StatusErrored Status = "errored"
	// StatusCancelled means the last run was cancelled. Reset returns
	// the conversation to idle.
	StatusCancelled Status = "cancelled"
)

// cancellationNotice is appended to the log when a run is cancelled, so the
// model sees the interruption on the next run.
const cancellationNotice = "cancelled"

// Controller drives one conversation. It owns the event log, talks to the
// model through a Client, dispatches tool calls through the registry, and
// multicasts every appended event to subscribers in log order.
type Controller struct {
	mu   sync.Mutex
	cond *sync.Cond

	state  *State
	client model.Client
	opts   *Options

	running         bool
	paused          bool
	errored         bool
	cancelled       bool
	cancelRequested bool

	// stepCancel aborts the in-flight model call and tool dispatch when
	// the run is cancelled. Nil when no step is executing.
	stepCancel context.CancelFunc

	// stepActive marks a step that is appending its own events. User
	// messages arriving while it is set are parked in pending and
	// appended once the step's events are fully in the log, so an action
	// batch is never split from its observations.
	stepActive bool
	pending    []event.Event

	// bus delivery is serialized by emitMu; emitCursor marks how much of
	// the log has been published. Lock order is emitMu before mu, never
	// the reverse.
	bus        *bus
	emitMu     sync.Mutex
	emitCursor int
}

// New creates a controller talking to client. The zero configuration runs
// with an empty tool registry, the identity condenser and default limits.
func New(client model.Client, opt ...Option) (*Controller, error) {
	if client == nil {
		return nil, fmt.Errorf("conversation: model client is required")
	}
	opts := newOptions(opt...)
	state := NewState()
	if opts.snapshot != nil {
		restored, err := restoreState(opts.snapshot)
		if err != nil {
			return nil, err
		}
		state = restored
	}
	c := &Controller{
		state:  state,
		client: client,
		opts:   opts,
		bus:    newBus(),
		// Restored events were already observed when first appended.
		emitCursor: state.Len(),
	}
	c.cond = sync.NewCond(&c.mu)
	for _, cb := range opts.callbacks {
		c.bus.subscribe(cb)
	}
	return c, nil
}

// Subscribe registers cb to receive every event appended from now on, in
// log order. The returned function unsubscribes.
func (c *Controller) Subscribe(cb Callback) func() {
	return c.bus.subscribe(cb)
}

// UserMessage builds a plain text user message.
func UserMessage(text string) event.Message {
	return event.Message{
		Role:    model.RoleUser,
		Content: []model.ContentPart{model.NewTextPart(text)},
	}
}

// SendMessage appends a user message to the conversation. The first message
// also freezes the system prompt and tool declarations into the log. When a
// run is in flight the message is picked up by the next step; with
// reentrant sends disabled, ErrBusy is returned instead.
//
// SendMessage does not start a run; call Run to make the agent act.
func (c *Controller) SendMessage(msg event.Message) error {
	if msg.Role == "" {
		msg.Role = model.RoleUser
	}
	if msg.Role != model.RoleUser {
		return fmt.Errorf("conversation: cannot send %q message, only user messages are accepted", msg.Role)
	}
	c.mu.Lock()
	if err := c.acceptingLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.running && !c.opts.reentrantSendMessage {
		c.mu.Unlock()
		return ErrBusy
	}
	var queued []event.Event
	if !c.state.sentInitialContext {
		queued = append(queued, event.NewSystemPromptEvent(c.systemPromptText(), c.opts.registry.List()))
		c.state.sentInitialContext = true
	}
	c.augmentWithSkillsLocked(&msg)
	queued = append(queued, event.NewMessageEvent(event.SourceUser, msg))
	// A new message reopens a finished conversation.
	c.state.finished = false
	if c.stepActive {
		// The step is mid-append; parking the message keeps the step's
		// action batch contiguous with its observations. It reaches the
		// log, and subscribers, when the step ends.
		c.pending = append(c.pending, queued...)
		c.mu.Unlock()
		return nil
	}
	for _, e := range queued {
		if err := c.state.append(e); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.mu.Unlock()
	c.flush()
	return nil
}

func (c *Controller) acceptingLocked() error {
	if c.errored {
		return ErrConversationErrored
	}
	if c.cancelled {
		return ErrCancelled
	}
	return nil
}

func (c *Controller) systemPromptText() string {
	if c.opts.environmentContext == "" {
		return c.opts.systemPrompt
	}
	return c.opts.systemPrompt + "\n\n<environment_context>\n" +
		c.opts.environmentContext + "\n</environment_context>"
}

// augmentWithSkillsLocked appends the content of newly triggered skills to
// the message. Each skill fires at most once per conversation.
func (c *Controller) augmentWithSkillsLocked(msg *event.Message) {
	if c.opts.skills == nil {
		return
	}
	hits := c.opts.skills.Match(msg.Text(), c.state.activatedSkills)
	for _, s := range hits {
		msg.Content = append(msg.Content, model.NewTextPart(renderSkillTag(s.Name, s.Content)))
		msg.ActivatedSkills = append(msg.ActivatedSkills, s.Name)
		c.state.activatedSkills[s.Name] = struct{}{}
		log.Debugf("conversation: activated skill %q", s.Name)
	}
}

// Run executes steps until the agent finishes, the iteration cap is
// reached, the run is cancelled, or an unrecoverable error occurs. Only one
// run may be in flight per controller.
//
// Run returns nil on a finished task, on hitting the iteration cap and on
// cancellation; it returns the underlying error when the run fails, after
// which the controller reports StatusErrored until Reset.
func (c *Controller) Run(ctx context.Context) error {
	c.mu.Lock()
	if err := c.acceptingLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.running {
		c.mu.Unlock()
		return ErrRunInProgress
	}
	c.running = true
	c.mu.Unlock()

	// Wake a paused loop when the caller's context ends.
	watcherDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			c.cond.Broadcast()
			c.mu.Unlock()
		case <-watcherDone:
		}
	}()

	err := c.runLoop(ctx)
	close(watcherDone)

	c.mu.Lock()
	c.running = false
	c.cond.Broadcast()
	c.mu.Unlock()
	return err
}

func (c *Controller) runLoop(ctx context.Context) error {
	for i := 0; i < c.opts.maxIterationsPerRun; i++ {
		c.mu.Lock()
		for c.paused && !c.cancelRequested && ctx.Err() == nil {
			c.cond.Wait()
		}
		if c.cancelRequested || ctx.Err() != nil {
			c.finalizeCancelLocked()
			c.mu.Unlock()
			c.flush()
			return ctx.Err()
		}
		if c.state.finished {
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()

		if err := c.step(ctx); err != nil {
			c.mu.Lock()
			if c.cancelRequested || ctx.Err() != nil {
				c.finalizeCancelLocked()
				c.mu.Unlock()
				c.flush()
				return ctx.Err()
			}
			c.errored = true
			c.mu.Unlock()
			c.flush()
			return err
		}

		c.mu.Lock()
		if c.cancelRequested {
			c.finalizeCancelLocked()
			c.mu.Unlock()
			c.flush()
			return nil
		}
		c.mu.Unlock()
	}
	log.Warnf("conversation: run hit the %d iteration cap", c.opts.maxIterationsPerRun)
	return nil
}

// finalizeCancelLocked records the cancellation in the log and moves the
// controller to the cancelled state.
func (c *Controller) finalizeCancelLocked() {
	c.cancelRequested = false
	c.cancelled = true
	notice := event.NewMessageEvent(event.SourceEnvironment, event.Message{
		Role:    model.RoleUser,
		Content: []model.ContentPart{model.NewTextPart(cancellationNotice)},
	})
	if err := c.state.append(notice); err != nil {
		log.Errorf("conversation: failed to record cancellation: %v", err)
	}
}

// Pause parks the run before its next step. An in-flight model call or tool
// batch keeps executing; its results are appended as usual. Pausing an idle
// controller makes the next run start parked.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

// Resume unparks a paused run.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.paused {
		return
	}
	c.paused = false
	c.cond.Broadcast()
}

// Cancel aborts the in-flight run: the current model call and tool dispatch
// are interrupted through their context, a cancellation notice is appended
// to the log, and Run returns cleanly. Cancelling an idle controller is a
// no-op. After cancellation the controller rejects messages and runs until
// Reset.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.cancelRequested = true
	if c.stepCancel != nil {
		c.stepCancel()
	}
	c.cond.Broadcast()
}

// Reset clears the errored or cancelled state, returning the controller to
// idle. The event log is kept; the model sees the recorded failure or
// cancellation on the next run.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errored = false
	c.cancelled = false
	c.cancelRequested = false
	c.paused = false
}

// Status reports the controller's lifecycle state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.cancelled:
		return StatusCancelled
	case c.errored:
		return StatusErrored
	case c.running && c.paused:
		return StatusPaused
	case c.running:
		return StatusRunning
	default:
		return StatusIdle
	}
}

// Events returns a copy of the conversation's event log.
func (c *Controller) Events() []event.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Events()
}

// Steps returns the number of model invocations so far.
func (c *Controller) Steps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.steps
}

// Finished reports whether the agent considers its current task complete.
func (c *Controller) Finished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.finished
}

// Snapshot captures the conversation state for persistence. Restore it into
// a new controller with WithSnapshot.
func (c *Controller) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// flush publishes every unpublished event to subscribers in log order.
// emitMu serializes publishers, so concurrent appends never reorder
// delivery.
func (c *Controller) flush() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	for {
		c.mu.Lock()
		pending := append([]event.Event(nil), c.state.events[c.emitCursor:]...)
		c.emitCursor = c.state.Len()
		c.mu.Unlock()
		if len(pending) == 0 {
			return
		}
		for i := range pending {
			c.bus.publish(pending[i])
		}
	}
}

func renderSkillTag(name, content string) string {
	var b strings.Builder
	b.WriteString("<skill name=\"")
	b.WriteString(name)
	b.WriteString("\">\n")
	b.WriteString(content)
	b.WriteString("\n</skill>")
	return b.String()
}
