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
	"fmt"

	"trpc.group/trpc-go/trpc-conversation-go/event"
)

// State is the persistent core of a conversation: the append-only event log
// plus the execution flags derived alongside it. State is not safe for
// concurrent use on its own; the controller serializes access under its
// mutex.
type State struct {
	events []event.Event
	// index maps event id to log position for duplicate and reference
	// checks.
	index map[string]int
	// seenBatches records every action batch id ever appended, so a batch
	// interrupted by another event cannot be resumed.
	seenBatches map[string]struct{}

	// finished is set when the agent completes a turn without tool calls
	// and cleared by the next user message.
	finished bool

	// sentInitialContext records that the system prompt has been emitted.
	sentInitialContext bool

	// activatedSkills holds the names of skills already injected.
	activatedSkills map[string]struct{}

	// steps counts model invocations across all runs.
	steps int
}

// NewState creates an empty conversation state.
func NewState() *State {
	return &State{
		index:           make(map[string]int),
		seenBatches:     make(map[string]struct{}),
		activatedSkills: make(map[string]struct{}),
	}
}

// append validates e against the log invariants and appends it. The log is
// append-only; there is no remove.
func (s *State) append(e event.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, ok := s.index[e.ID]; ok {
		return &InvariantError{EventID: e.ID, Reason: "duplicate event id"}
	}
	switch e.Kind {
	case event.KindObservation:
		if err := s.checkObservation(e); err != nil {
			return err
		}
	case event.KindAction:
		if err := s.checkBatch(e); err != nil {
			return err
		}
	}
	s.index[e.ID] = len(s.events)
	s.events = append(s.events, e)
	if e.Kind == event.KindAction {
		s.seenBatches[e.Action.BatchID] = struct{}{}
	}
	return nil
}

// checkObservation requires the observation to answer an earlier action
// with a matching tool call id.
func (s *State) checkObservation(e event.Event) error {
	o := e.Observation
	pos, ok := s.index[o.ActionID]
	if !ok {
		return &InvariantError{EventID: e.ID, Reason: fmt.Sprintf("observation references unknown action %s", o.ActionID)}
	}
	action := s.events[pos]
	if action.Kind != event.KindAction {
		return &InvariantError{EventID: e.ID, Reason: fmt.Sprintf("observation references %s event %s, want an action", action.Kind, o.ActionID)}
	}
	if action.Action.ToolCallID != o.ToolCallID {
		return &InvariantError{EventID: e.ID, Reason: fmt.Sprintf("observation tool call id %s does not match action's %s", o.ToolCallID, action.Action.ToolCallID)}
	}
	return nil
}

// checkBatch keeps actions of one batch contiguous in the log. An action
// may join batch B only when the log's last event is an action of batch B;
// otherwise B must be a fresh batch id.
func (s *State) checkBatch(e event.Event) error {
	batch := e.Action.BatchID
	if batch == "" {
		return &InvariantError{EventID: e.ID, Reason: "action has no batch id"}
	}
	if _, seen := s.seenBatches[batch]; !seen {
		return nil
	}
	if n := len(s.events); n > 0 {
		last := s.events[n-1]
		if last.Kind == event.KindAction && last.Action.BatchID == batch {
			return nil
		}
	}
	return &InvariantError{EventID: e.ID, Reason: fmt.Sprintf("action would split batch %s", batch)}
}

// Events returns a copy of the event log.
func (s *State) Events() []event.Event {
	return append([]event.Event(nil), s.events...)
}

// Len returns the number of events in the log.
func (s *State) Len() int {
	return len(s.events)
}

// Steps returns the number of model invocations so far.
func (s *State) Steps() int {
	return s.steps
}

// Finished reports whether the agent has completed its current task.
func (s *State) Finished() bool {
	return s.finished
}

// Snapshot is the serializable form of a conversation state. Only the
// event log and counters are stored; indexes are rebuilt on restore.
type Snapshot struct {
	Events             []event.Event `json:"events"`
	Finished           bool          `json:"finished"`
	SentInitialContext bool          `json:"sentInitialContext"`
	ActivatedSkills    []string      `json:"activatedSkills,omitempty"`
	Steps              int           `json:"steps"`
}

// Snapshot captures the state for persistence.
func (s *State) Snapshot() *Snapshot {
	snap := &Snapshot{
		Events:             s.Events(),
		Finished:           s.finished,
		SentInitialContext: s.sentInitialContext,
		Steps:              s.steps,
	}
	for name := range s.activatedSkills {
		snap.ActivatedSkills = append(snap.ActivatedSkills, name)
	}
	return snap
}

// restoreState rebuilds a state from a snapshot, revalidating every event
// through the normal append path so a hand-edited snapshot cannot smuggle
// in an invalid log.
func restoreState(snap *Snapshot) (*State, error) {
	s := NewState()
	for i := range snap.Events {
		if err := s.append(snap.Events[i]); err != nil {
			return nil, fmt.Errorf("restore event %d: %w", i, err)
		}
	}
	s.finished = snap.Finished
	s.sentInitialContext = snap.SentInitialContext
	for _, name := range snap.ActivatedSkills {
		s.activatedSkills[name] = struct{}{}
	}
	s.steps = snap.Steps
	return s, nil
}
