//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package event

import "trpc.group/trpc-go/trpc-conversation-go/model"

// View projects the event log after condensation. When the log contains no
// condensation events the view equals the log. Otherwise the view is the
// log with all forgotten events and the condensation markers themselves
// removed, and, if the most recent condensation carries a summary, a
// synthetic user-role message spliced in at the summary offset.
//
// View is pure: it never mutates its input and recomputes from scratch on
// every call. Views are derived on demand and never stored.
func View(events []Event) []Event {
	forgotten := make(map[string]struct{})
	var summary string
	var summaryOffset int
	hasSummary := false
	for i := range events {
		c := events[i].Condensation
		if c == nil {
			continue
		}
		for _, id := range c.ForgottenEventIDs {
			forgotten[id] = struct{}{}
		}
		if c.Summary != "" {
			summary = c.Summary
			summaryOffset = 0
			if c.SummaryOffset != nil {
				summaryOffset = *c.SummaryOffset
			}
			hasSummary = true
		}
	}

	view := make([]Event, 0, len(events))
	for i := range events {
		if events[i].Kind == KindCondensation {
			continue
		}
		if _, ok := forgotten[events[i].ID]; ok {
			continue
		}
		view = append(view, events[i])
	}

	if hasSummary {
		if summaryOffset < 0 {
			summaryOffset = 0
		}
		if summaryOffset > len(view) {
			summaryOffset = len(view)
		}
		synthetic := NewMessageEvent(SourceEnvironment, Message{
			Role:    model.RoleUser,
			Content: []model.ContentPart{model.NewTextPart(summary)},
		})
		view = append(view[:summaryOffset:summaryOffset], append([]Event{synthetic}, view[summaryOffset:]...)...)
	}
	return view
}
