//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

// Package event defines the immutable event records that make up a
// conversation log, together with the projections that turn a log into
// LLM-ready chat messages. The log's insertion order is the ground truth
// for both replay and condensation.
package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-conversation-go/model"
	"trpc.group/trpc-go/trpc-conversation-go/tool"
)

// Source identifies who produced an event.
type Source string

// Source constants.
const (
	SourceUser        Source = "user"
	SourceAgent       Source = "agent"
	SourceEnvironment Source = "environment"
)

// Kind discriminates the event payload.
type Kind string

// Kind constants.
const (
	KindSystemPrompt Kind = "system_prompt"
	KindMessage      Kind = "message"
	KindAction       Kind = "action"
	KindObservation  Kind = "observation"
	KindAgentError   Kind = "agent_error"
	KindCondensation Kind = "condensation"
)

// Event is one immutable record in the conversation log. The header fields
// are common to all kinds; exactly one payload pointer is non-nil,
// selected by Kind. Events reference earlier events only by id, never by
// pointer.
type Event struct {
	// ID is unique within a conversation. IDs are UUIDv7, so their
	// lexicographic order roughly follows creation time.
	ID string `json:"id"`

	// Timestamp is when the event was created.
	Timestamp time.Time `json:"timestamp"`

	// Source is who produced the event.
	Source Source `json:"source"`

	// Kind selects the payload.
	Kind Kind `json:"kind"`

	SystemPrompt *SystemPrompt `json:"systemPrompt,omitempty"`
	Message      *Message      `json:"message,omitempty"`
	Action       *Action       `json:"action,omitempty"`
	Observation  *Observation  `json:"observation,omitempty"`
	AgentError   *AgentError   `json:"agentError,omitempty"`
	Condensation *Condensation `json:"condensation,omitempty"`
}

// SystemPrompt carries the system prompt text and the frozen tool
// declarations presented to the model for this conversation.
type SystemPrompt struct {
	Text  string              `json:"text"`
	Tools []*tool.Declaration `json:"tools,omitempty"`
}

// Message is a plain conversational turn.
type Message struct {
	// Role is the chat role the message projects to.
	Role model.Role `json:"role"`

	// Content holds the typed content parts.
	Content []model.ContentPart `json:"content"`

	// ActivatedSkills lists the skills whose content augmented this
	// message, if any.
	ActivatedSkills []string `json:"activatedSkills,omitempty"`
}

// Text returns the concatenated text parts of the message.
func (m *Message) Text() string {
	var b strings.Builder
	for _, p := range m.Content {
		if p.Type == model.ContentTypeText {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// Action records the agent's decision to invoke one tool.
type Action struct {
	// Thought is the model's free-text content accompanying the call.
	Thought string `json:"thought,omitempty"`

	// ToolName is the tool to invoke.
	ToolName string `json:"toolName"`

	// Arguments is the JSON-encoded arguments object, already validated
	// against the tool's input schema.
	Arguments json.RawMessage `json:"arguments"`

	// ToolCallID is the provider-assigned call id echoed from the model.
	ToolCallID string `json:"toolCallId"`

	// BatchID groups actions that came from the same model response.
	BatchID string `json:"batchId"`
}

// Observation records the result of one action.
type Observation struct {
	// ActionID is the id of the Action event this observation answers.
	ActionID string `json:"actionId"`

	// ToolCallID pairs the observation with the model's tool call.
	ToolCallID string `json:"toolCallId"`

	// ToolName is the tool that produced the observation.
	ToolName string `json:"toolName"`

	// Content is the text projection of the observation, rendered to the
	// model as the tool message content.
	Content string `json:"content"`

	// Data optionally carries the structured result.
	Data json.RawMessage `json:"data,omitempty"`

	// Failed indicates the tool reported an error; Content carries the
	// error text.
	Failed bool `json:"failed,omitempty"`
}

// AgentError is a recoverable error surfaced to the model, such as a
// schema validation failure or an unknown tool name.
type AgentError struct {
	// Message describes the error.
	Message string `json:"message"`

	// ToolCallID is set when the error answers a specific tool call.
	ToolCallID string `json:"toolCallId,omitempty"`

	// ToolName is set when the error concerns a specific tool.
	ToolName string `json:"toolName,omitempty"`
}

// Condensation is a rewrite marker. It never deletes events from the log;
// it only alters the projected view.
type Condensation struct {
	// ForgottenEventIDs lists events removed from the view.
	ForgottenEventIDs []string `json:"forgottenEventIds,omitempty"`

	// Summary, when non-empty, is spliced into the view as a synthetic
	// user message at SummaryOffset.
	Summary string `json:"summary,omitempty"`

	// SummaryOffset is the view position where the summary is inserted.
	SummaryOffset *int `json:"summaryOffset,omitempty"`
}

// newID returns a time-ordered unique event id.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// NewBatchID returns a fresh batch id grouping the actions of one model
// response.
func NewBatchID() string {
	return newID()
}

func newEvent(source Source, kind Kind) Event {
	return Event{
		ID:        newID(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		Kind:      kind,
	}
}

// NewSystemPromptEvent creates a system prompt event.
func NewSystemPromptEvent(text string, tools []*tool.Declaration) Event {
	e := newEvent(SourceAgent, KindSystemPrompt)
	e.SystemPrompt = &SystemPrompt{Text: text, Tools: tools}
	return e
}

// NewMessageEvent creates a message event from the given source.
func NewMessageEvent(source Source, msg Message) Event {
	e := newEvent(source, KindMessage)
	e.Message = &msg
	return e
}

// NewActionEvent creates an action event.
func NewActionEvent(action Action) Event {
	e := newEvent(SourceAgent, KindAction)
	e.Action = &action
	return e
}

// NewObservationEvent creates an observation event.
func NewObservationEvent(obs Observation) Event {
	e := newEvent(SourceEnvironment, KindObservation)
	e.Observation = &obs
	return e
}

// NewAgentErrorEvent creates an agent error event.
func NewAgentErrorEvent(agentErr AgentError) Event {
	e := newEvent(SourceEnvironment, KindAgentError)
	e.AgentError = &agentErr
	return e
}

// NewCondensationEvent creates a condensation event.
func NewCondensationEvent(c Condensation) Event {
	e := newEvent(SourceEnvironment, KindCondensation)
	e.Condensation = &c
	return e
}

// Validate checks that the event's payload matches its kind.
func (e *Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event has no id")
	}
	var want bool
	switch e.Kind {
	case KindSystemPrompt:
		want = e.SystemPrompt != nil
	case KindMessage:
		want = e.Message != nil
	case KindAction:
		want = e.Action != nil
	case KindObservation:
		want = e.Observation != nil
	case KindAgentError:
		want = e.AgentError != nil
	case KindCondensation:
		want = e.Condensation != nil
	default:
		return fmt.Errorf("event %s has unknown kind %q", e.ID, e.Kind)
	}
	if !want {
		return fmt.Errorf("event %s of kind %q is missing its payload", e.ID, e.Kind)
	}
	if n := e.payloadCount(); n != 1 {
		return fmt.Errorf("event %s of kind %q carries %d payloads, want exactly 1", e.ID, e.Kind, n)
	}
	return nil
}

func (e *Event) payloadCount() int {
	n := 0
	for _, set := range []bool{
		e.SystemPrompt != nil,
		e.Message != nil,
		e.Action != nil,
		e.Observation != nil,
		e.AgentError != nil,
		e.Condensation != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// UnmarshalJSON decodes an event and rejects unknown kinds and
// kind/payload mismatches.
func (e *Event) UnmarshalJSON(data []byte) error {
	type alias Event
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*e = Event(a)
	return e.Validate()
}

// Clone creates a deep copy of the event.
func (e *Event) Clone() Event {
	clone := *e
	if e.SystemPrompt != nil {
		sp := *e.SystemPrompt
		sp.Tools = append([]*tool.Declaration(nil), e.SystemPrompt.Tools...)
		clone.SystemPrompt = &sp
	}
	if e.Message != nil {
		m := *e.Message
		m.Content = append([]model.ContentPart(nil), e.Message.Content...)
		m.ActivatedSkills = append([]string(nil), e.Message.ActivatedSkills...)
		clone.Message = &m
	}
	if e.Action != nil {
		a := *e.Action
		a.Arguments = append(json.RawMessage(nil), e.Action.Arguments...)
		clone.Action = &a
	}
	if e.Observation != nil {
		o := *e.Observation
		o.Data = append(json.RawMessage(nil), e.Observation.Data...)
		clone.Observation = &o
	}
	if e.AgentError != nil {
		ae := *e.AgentError
		clone.AgentError = &ae
	}
	if e.Condensation != nil {
		c := *e.Condensation
		c.ForgottenEventIDs = append([]string(nil), e.Condensation.ForgottenEventIDs...)
		if e.Condensation.SummaryOffset != nil {
			off := *e.Condensation.SummaryOffset
			c.SummaryOffset = &off
		}
		clone.Condensation = &c
	}
	return clone
}
