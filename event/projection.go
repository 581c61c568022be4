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
	"trpc.group/trpc-go/trpc-conversation-go/model"
)

// ToMessages projects events into the chat-format messages sent to the
// model. The projection rules are:
//
//   - SystemPrompt: one system message with the prompt text.
//   - Message: one message in its declared role with its content parts.
//   - A contiguous run of Actions sharing a batch id: ONE assistant
//     message whose content is the first action's thought and whose
//     tool_calls lists all actions in batch order. Splitting a batch into
//     separate assistant messages corrupts chat-format expectations, and
//     some providers reject the next request.
//   - Observation: one tool message with the tool call id and the text
//     projection of the observation.
//   - AgentError: one user message; the model sees errors as user input.
//   - Condensation: not projected. Condensation alters the view that is
//     projected, see View.
//
// ToMessages is pure: the same input log always yields the same output.
func ToMessages(events []Event) []model.Message {
	msgs := make([]model.Message, 0, len(events))
	for i := 0; i < len(events); {
		e := events[i]
		switch e.Kind {
		case KindSystemPrompt:
			msgs = append(msgs, model.NewSystemMessage(e.SystemPrompt.Text))
			i++
		case KindMessage:
			msgs = append(msgs, projectMessage(e.Message))
			i++
		case KindAction:
			batch := e.Action.BatchID
			j := i
			var calls []model.ToolCall
			for j < len(events) && events[j].Kind == KindAction && events[j].Action.BatchID == batch {
				a := events[j].Action
				calls = append(calls, model.ToolCall{
					ID:        a.ToolCallID,
					Name:      a.ToolName,
					Arguments: a.Arguments,
				})
				j++
			}
			msgs = append(msgs, model.Message{
				Role:      model.RoleAssistant,
				Content:   e.Action.Thought,
				ToolCalls: calls,
			})
			i = j
		case KindObservation:
			o := e.Observation
			msgs = append(msgs, model.NewToolMessage(o.ToolCallID, o.ToolName, o.Content))
			i++
		case KindAgentError:
			msgs = append(msgs, model.NewUserMessage(e.AgentError.Message))
			i++
		default:
			// Condensation and unknown kinds are not projected.
			i++
		}
	}
	return msgs
}

func projectMessage(m *Message) model.Message {
	msg := model.Message{Role: m.Role}
	if len(m.Content) == 1 && m.Content[0].Type == model.ContentTypeText {
		msg.Content = m.Content[0].Text
		return msg
	}
	msg.ContentParts = append([]model.ContentPart(nil), m.Content...)
	return msg
}
