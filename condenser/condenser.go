//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

// Package condenser provides the history condensation hook of the step
// engine. A condenser inspects the current view of the event log and may
// request a rewrite by returning a condensation event; the engine appends
// the event and recomputes the view. Condensation never deletes events
// from the log.
package condenser

import (
	"context"

	"trpc.group/trpc-go/trpc-conversation-go/event"
)

// Condenser produces condensation requests from conversation views. It is
// called once per step, before the view is projected to model messages.
type Condenser interface {
	// Condense returns a condensation event when the view should be
	// rewritten, or nil when the view is already compact. The returned
	// event must be of kind event.KindCondensation.
	Condense(ctx context.Context, view []event.Event) (*event.Event, error)
}

// Identity is the default condenser: it never condenses.
type Identity struct{}

// NewIdentity creates an identity condenser.
func NewIdentity() *Identity {
	return &Identity{}
}

// Condense implements Condenser. It always returns nil.
func (*Identity) Condense(ctx context.Context, view []event.Event) (*event.Event, error) {
	return nil, nil
}

// MaxEvents condenses by forgetting the oldest forgettable events once the
// view grows beyond a cap. System prompts and the first user message are
// never forgotten, so the model keeps its instructions and task. Actions
// and their observations are forgotten together to preserve tool call
// pairing in the projected view.
type MaxEvents struct {
	max int
}

// NewMaxEvents creates a MaxEvents condenser keeping at most max events in
// the view. Values below 2 are raised to 2.
func NewMaxEvents(max int) *MaxEvents {
	if max < 2 {
		max = 2
	}
	return &MaxEvents{max: max}
}

// Condense implements Condenser.
func (c *MaxEvents) Condense(ctx context.Context, view []event.Event) (*event.Event, error) {
	if len(view) <= c.max {
		return nil, nil
	}
	excess := len(view) - c.max

	// Partner observations with their actions so both are forgotten in
	// the same rewrite.
	obsByAction := make(map[string]string)
	for i := range view {
		if o := view[i].Observation; o != nil {
			obsByAction[o.ActionID] = view[i].ID
		}
	}

	forgotten := make([]string, 0, excess)
	chosen := make(map[string]struct{})
	firstUserSeen := false
	for i := 0; i < len(view) && len(forgotten) < excess; i++ {
		e := view[i]
		if e.Kind == event.KindSystemPrompt {
			continue
		}
		if e.Kind == event.KindMessage && e.Source == event.SourceUser && !firstUserSeen {
			firstUserSeen = true
			continue
		}
		if _, ok := chosen[e.ID]; ok {
			continue
		}
		forgotten = append(forgotten, e.ID)
		chosen[e.ID] = struct{}{}
		if e.Kind == event.KindAction {
			if obsID, ok := obsByAction[e.ID]; ok {
				if _, dup := chosen[obsID]; !dup {
					forgotten = append(forgotten, obsID)
					chosen[obsID] = struct{}{}
				}
			}
		}
	}
	if len(forgotten) == 0 {
		return nil, nil
	}
	ev := event.NewCondensationEvent(event.Condensation{ForgottenEventIDs: forgotten})
	return &ev, nil
}
