//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-conversation-go/model"
)

func TestToMessages_BasicTurn(t *testing.T) {
	events := []Event{
		NewSystemPromptEvent("be helpful", nil),
		userMessageEvent("hi"),
	}
	msgs := ToMessages(events)

	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleSystem, msgs[0].Role)
	assert.Equal(t, "be helpful", msgs[0].Content)
	assert.Equal(t, model.RoleUser, msgs[1].Role)
	assert.Equal(t, "hi", msgs[1].Content)
}

func TestToMessages_BatchProjectsToOneAssistantMessage(t *testing.T) {
	batch := NewBatchID()
	events := []Event{
		userMessageEvent("list and count"),
		NewActionEvent(Action{
			Thought:    "I will do both",
			ToolName:   "ls",
			Arguments:  json.RawMessage(`{}`),
			ToolCallID: "call_1",
			BatchID:    batch,
		}),
		NewActionEvent(Action{
			ToolName:   "wc",
			Arguments:  json.RawMessage(`{"path":"a.txt"}`),
			ToolCallID: "call_2",
			BatchID:    batch,
		}),
		NewObservationEvent(Observation{
			ActionID: "a1", ToolCallID: "call_1", ToolName: "ls", Content: "a.txt",
		}),
		NewObservationEvent(Observation{
			ActionID: "a2", ToolCallID: "call_2", ToolName: "wc", Content: "10",
		}),
	}

	msgs := ToMessages(events)
	require.Len(t, msgs, 4)

	assistant := msgs[1]
	assert.Equal(t, model.RoleAssistant, assistant.Role)
	assert.Equal(t, "I will do both", assistant.Content)
	require.Len(t, assistant.ToolCalls, 2)
	assert.Equal(t, "call_1", assistant.ToolCalls[0].ID)
	assert.Equal(t, "call_2", assistant.ToolCalls[1].ID)

	assert.Equal(t, model.RoleTool, msgs[2].Role)
	assert.Equal(t, "call_1", msgs[2].ToolCallID)
	assert.Equal(t, model.RoleTool, msgs[3].Role)
	assert.Equal(t, "call_2", msgs[3].ToolCallID)
}

func TestToMessages_SeparateBatchesStaySeparate(t *testing.T) {
	events := []Event{
		NewActionEvent(Action{
			ToolName: "ls", Arguments: json.RawMessage(`{}`),
			ToolCallID: "call_1", BatchID: "batch_a",
		}),
		NewActionEvent(Action{
			ToolName: "wc", Arguments: json.RawMessage(`{}`),
			ToolCallID: "call_2", BatchID: "batch_b",
		}),
	}
	msgs := ToMessages(events)

	require.Len(t, msgs, 2)
	assert.Len(t, msgs[0].ToolCalls, 1)
	assert.Len(t, msgs[1].ToolCalls, 1)
}

func TestToMessages_AgentErrorBecomesUserMessage(t *testing.T) {
	events := []Event{
		NewAgentErrorEvent(AgentError{Message: "no such tool: \"rm\"", ToolName: "rm"}),
	}
	msgs := ToMessages(events)

	require.Len(t, msgs, 1)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "no such tool")
}

func TestToMessages_CondensationNotProjected(t *testing.T) {
	events := []Event{
		userMessageEvent("hi"),
		NewCondensationEvent(Condensation{ForgottenEventIDs: []string{"x"}}),
	}
	msgs := ToMessages(events)
	require.Len(t, msgs, 1)
}

func TestToMessages_MultiPartMessage(t *testing.T) {
	e := NewMessageEvent(SourceUser, Message{
		Role: model.RoleUser,
		Content: []model.ContentPart{
			model.NewTextPart("look at this"),
			model.NewImagePart("https://example.com/x.png"),
		},
	})
	msgs := ToMessages([]Event{e})

	require.Len(t, msgs, 1)
	assert.Empty(t, msgs[0].Content)
	require.Len(t, msgs[0].ContentParts, 2)
	assert.Equal(t, model.ContentTypeImage, msgs[0].ContentParts[1].Type)
}

func TestToMessages_IsPure(t *testing.T) {
	batch := NewBatchID()
	events := []Event{
		userMessageEvent("hi"),
		NewActionEvent(Action{
			ToolName: "ls", Arguments: json.RawMessage(`{}`),
			ToolCallID: "call_1", BatchID: batch,
		}),
	}
	first := ToMessages(events)
	second := ToMessages(events)
	assert.Equal(t, first, second)
}
