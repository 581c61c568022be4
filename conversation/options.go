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
	"trpc.group/trpc-go/trpc-conversation-go/condenser"
	"trpc.group/trpc-go/trpc-conversation-go/skill"
	"trpc.group/trpc-go/trpc-conversation-go/tool"
)

// defaultSystemPrompt is used when no prompt option is given.
const defaultSystemPrompt = "You are a helpful agent. Use the available tools " +
	"to complete the user's task, then reply with a final answer."

// Options configures a Controller.
type Options struct {
	systemPrompt       string
	environmentContext string

	registry  *tool.Registry
	condenser condenser.Condenser
	skills    *skill.Registry
	callbacks []Callback
	snapshot  *Snapshot

	maxIterationsPerRun  int
	parallelToolCalls    bool
	dropLateObservations bool
	reentrantSendMessage bool
	readOnly             bool
}

// Option configures the controller.
type Option func(*Options)

func newOptions(opts ...Option) *Options {
	o := &Options{
		systemPrompt:         defaultSystemPrompt,
		registry:             tool.NewRegistry(),
		condenser:            condenser.NewIdentity(),
		maxIterationsPerRun:  500,
		parallelToolCalls:    true,
		dropLateObservations: true,
		reentrantSendMessage: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithSystemPrompt sets the system prompt emitted before the first user
// message.
func WithSystemPrompt(prompt string) Option {
	return func(o *Options) {
		o.systemPrompt = prompt
	}
}

// WithEnvironmentContext appends runtime environment details (working
// directory, available services and the like) to the system prompt.
func WithEnvironmentContext(ctx string) Option {
	return func(o *Options) {
		o.environmentContext = ctx
	}
}

// WithRegistry sets the tool registry the conversation dispatches against.
// The tool set is frozen into the system prompt on the first message and
// should not change afterwards.
func WithRegistry(r *tool.Registry) Option {
	return func(o *Options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithCondenser sets the history condenser. The default identity condenser
// never condenses.
func WithCondenser(c condenser.Condenser) Option {
	return func(o *Options) {
		if c != nil {
			o.condenser = c
		}
	}
}

// WithSkills sets the skill registry consulted on each user message.
func WithSkills(r *skill.Registry) Option {
	return func(o *Options) {
		o.skills = r
	}
}

// WithCallback subscribes cb to the conversation's events from the start.
// Additional subscribers can be added later with Controller.Subscribe.
func WithCallback(cb Callback) Option {
	return func(o *Options) {
		if cb != nil {
			o.callbacks = append(o.callbacks, cb)
		}
	}
}

// WithSnapshot restores the conversation from a previously captured
// snapshot instead of starting empty.
func WithSnapshot(snap *Snapshot) Option {
	return func(o *Options) {
		o.snapshot = snap
	}
}

// WithMaxIterationsPerRun caps the number of steps one Run may take before
// returning control to the caller. Defaults to 500. Values below 1 are
// ignored.
func WithMaxIterationsPerRun(n int) Option {
	return func(o *Options) {
		if n >= 1 {
			o.maxIterationsPerRun = n
		}
	}
}

// WithParallelToolCalls controls whether a batch of tool calls may be
// dispatched concurrently. Even when enabled, a batch runs sequentially
// unless every tool in it declares itself parallel safe. Defaults to true.
func WithParallelToolCalls(enabled bool) Option {
	return func(o *Options) {
		o.parallelToolCalls = enabled
	}
}

// WithDropLateObservations controls whether observations from tools still
// running when the conversation is cancelled are discarded rather than
// appended. Defaults to true.
func WithDropLateObservations(drop bool) Option {
	return func(o *Options) {
		o.dropLateObservations = drop
	}
}

// WithReentrantSendMessage controls whether SendMessage is accepted while a
// run is in flight. When disabled, SendMessage returns ErrBusy instead of
// queueing the message for the next step. Defaults to true.
func WithReentrantSendMessage(enabled bool) Option {
	return func(o *Options) {
		o.reentrantSendMessage = enabled
	}
}

// WithReadOnly forbids tools that declare the edit capability. Dispatching
// such a tool yields a failed observation instead of an invocation.
func WithReadOnly(readOnly bool) Option {
	return func(o *Options) {
		o.readOnly = readOnly
	}
}
