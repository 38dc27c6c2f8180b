// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"time"

	"github.com/gogama/wasihttp/transient"
)

// An Execution represents the state of a single send of a Plan.
//
// When a Plan is sent, an Execution is created for it and handed to
// every event handler as the send progresses: before it starts, just
// before the outgoing request is submitted to the host, before the
// blocking wait (if one is needed), when the response head arrives, and
// when the send ends.
//
// Event handlers may set values on an Execution using its SetValue
// method and read them back using the Value method. They may modify
// the Plan during the BeforeExecutionStart event, for example to add a
// header, but should otherwise treat the exported fields as read-only.
type Execution struct {
	// Plan specifies the request being sent. It is never nil.
	Plan *Plan

	// Start is the start time of the send. It is assigned a non-zero
	// value when the send starts, and remains constant thereafter.
	Start time.Time

	// End is the end time of the send. It contains the zero value until
	// the send ends, when it is set to the current time.
	End time.Time

	// Waited reports whether the response was not ready on the first
	// poll, so the calling goroutine had to block on the host's
	// readiness signal.
	Waited bool

	// StatusCode is the response status code, or zero if no response
	// has been received.
	StatusCode int

	// ResponseHeader contains the decoded response headers, or nil if
	// no response has been received. Duplicate names keep the last
	// value.
	ResponseHeader map[string]string

	// Err is the error that ended the send, if any. Once the execution
	// has ended, Err has the same value as the error returned to the
	// caller.
	Err error

	data context.Context
}

// Duration returns the duration of the execution.
//
// If the execution has not yet started, the duration is zero. If the
// execution has Ended, the duration returned is equal to End minus
// Start. Otherwise, it is equal to the current time minus Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has ended. Once it has, there
// will be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently contains a non-nil value
// which indicates a timeout reported by the host.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// execution.
//
// The key must follow the same rules as the key parameter in
// context.WithValue, namely it:
//
// • it may not be nil;
//
// • it must be comparable;
//
// • it should not be of type string or any other built-in type to avoid
// collisions between different event handlers putting data into the
// same execution.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
