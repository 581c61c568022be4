//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"errors"
	"fmt"
)

// TransportError reports a failure to obtain a response from the model
// service. Retryable distinguishes transient failures (rate limits,
// upstream overload, timeouts) from fatal ones (bad credentials, malformed
// request). The step engine retries retryable failures with backoff.
type TransportError struct {
	// Message describes the failure.
	Message string

	// Retryable indicates the request may succeed if repeated.
	Retryable bool

	// Status is the HTTP status code when the failure came from an HTTP
	// transport, zero otherwise.
	Status int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("model transport error (status %d): %s", e.Status, e.Message)
	}
	return "model transport error: " + e.Message
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a retryable transport error.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Retryable
}
