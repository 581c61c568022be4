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
	"errors"
	"fmt"
)

// Sentinel errors returned by Controller operations.
var (
	// ErrBusy is returned by SendMessage when a run is in flight and
	// reentrant sends are disabled.
	ErrBusy = errors.New("conversation: a run is in progress")

	// ErrConversationErrored is returned by SendMessage and Run after a
	// run failed with an unrecoverable error. Call Reset to continue.
	ErrConversationErrored = errors.New("conversation: errored, reset required")

	// ErrCancelled is returned by SendMessage after Cancel until Reset is
	// called.
	ErrCancelled = errors.New("conversation: cancelled, reset required")

	// ErrRunInProgress is returned by Run when another run is already
	// active on the same controller.
	ErrRunInProgress = errors.New("conversation: run already in progress")
)

// InvariantError reports an attempt to append an event that would violate a
// structural invariant of the log, such as a duplicate id or an observation
// that answers no action.
type InvariantError struct {
	// EventID is the id of the rejected event.
	EventID string

	// Reason describes the violated invariant.
	Reason string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("conversation: event %s rejected: %s", e.EventID, e.Reason)
}
