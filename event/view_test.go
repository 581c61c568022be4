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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-conversation-go/model"
)

func userMessageEvent(text string) Event {
	return NewMessageEvent(SourceUser, Message{
		Role:    model.RoleUser,
		Content: []model.ContentPart{model.NewTextPart(text)},
	})
}

func TestView_NoCondensation(t *testing.T) {
	events := []Event{
		NewSystemPromptEvent("prompt", nil),
		userMessageEvent("one"),
		userMessageEvent("two"),
	}
	view := View(events)
	assert.Equal(t, events, view)
}

func TestView_ForgetsEvents(t *testing.T) {
	events := []Event{
		NewSystemPromptEvent("prompt", nil),
		userMessageEvent("one"),
		userMessageEvent("two"),
	}
	cond := NewCondensationEvent(Condensation{ForgottenEventIDs: []string{events[1].ID}})
	log := append(events, cond)

	view := View(log)
	require.Len(t, view, 2)
	assert.Equal(t, events[0].ID, view[0].ID)
	assert.Equal(t, events[2].ID, view[1].ID)
	// The log itself is untouched.
	assert.Len(t, log, 4)
}

func TestView_ForgottenSetAccumulates(t *testing.T) {
	events := []Event{
		userMessageEvent("one"),
		userMessageEvent("two"),
		userMessageEvent("three"),
	}
	first := NewCondensationEvent(Condensation{ForgottenEventIDs: []string{events[0].ID}})
	second := NewCondensationEvent(Condensation{ForgottenEventIDs: []string{events[1].ID}})
	log := append(events, first, second)

	view := View(log)
	require.Len(t, view, 1)
	assert.Equal(t, events[2].ID, view[0].ID)
}

func TestView_SummarySplicedAtOffset(t *testing.T) {
	events := []Event{
		NewSystemPromptEvent("prompt", nil),
		userMessageEvent("one"),
		userMessageEvent("two"),
	}
	offset := 1
	cond := NewCondensationEvent(Condensation{
		ForgottenEventIDs: []string{events[1].ID},
		Summary:           "user asked about one",
		SummaryOffset:     &offset,
	})
	view := View(append(events, cond))

	require.Len(t, view, 3)
	synthetic := view[1]
	assert.Equal(t, KindMessage, synthetic.Kind)
	assert.Equal(t, SourceEnvironment, synthetic.Source)
	assert.Equal(t, model.RoleUser, synthetic.Message.Role)
	assert.Equal(t, "user asked about one", synthetic.Message.Text())
}

func TestView_LastSummaryWins(t *testing.T) {
	events := []Event{userMessageEvent("one")}
	first := NewCondensationEvent(Condensation{Summary: "old summary"})
	second := NewCondensationEvent(Condensation{Summary: "new summary"})
	view := View(append(events, first, second))

	require.Len(t, view, 2)
	assert.Equal(t, "new summary", view[0].Message.Text())
}

func TestView_OffsetClamped(t *testing.T) {
	events := []Event{userMessageEvent("one")}
	offset := 99
	cond := NewCondensationEvent(Condensation{Summary: "s", SummaryOffset: &offset})
	view := View(append(events, cond))

	require.Len(t, view, 2)
	assert.Equal(t, "s", view[1].Message.Text())
}
