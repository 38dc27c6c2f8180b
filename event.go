// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality.
type Event int

const (
	// BeforeExecutionStart identifies the event that occurs before the
	// send starts.
	//
	// When Client fires BeforeExecutionStart, the execution is non-nil
	// but the only field that has been set is the plan. Handlers may
	// modify the plan, for example to add a header, and the change will
	// be reflected in the request sent to the host.
	BeforeExecutionStart Event = iota
	// BeforeSubmit identifies the event that occurs after the plan has
	// been translated into the host's outgoing-request resource, and
	// immediately before that resource is handed to the host.
	//
	// Changes to the plan made by a BeforeSubmit handler have no effect
	// on the request.
	BeforeSubmit
	// BeforeWait identifies the event that occurs when the response was
	// not ready on the first poll, immediately before the calling
	// goroutine blocks waiting for the host's readiness signal.
	//
	// BeforeWait fires at most once per send, and never fires if the
	// host resolved the response before it was first polled.
	BeforeWait
	// AfterResponse identifies the event that occurs after the response
	// head (status and headers) has been received and decoded, but
	// before any of the body has been read.
	//
	// When Client fires AfterResponse, the execution's StatusCode and
	// ResponseHeader fields are set.
	AfterResponse
	// AfterExecutionEnd identifies the event that occurs after the send
	// ends, whether it ended with a response or an error.
	//
	// When Client fires AfterExecutionEnd, the execution's end time is
	// set and Err holds the error returned to the caller, if any.
	AfterExecutionEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExecutionStart",
	"BeforeSubmit",
	"BeforeWait",
	"AfterResponse",
	"AfterExecutionEnd",
}

// Events returns a slice containing all events which can occur while
// Client sends a request, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeExecutionStart,
		BeforeSubmit,
		BeforeWait,
		AfterResponse,
		AfterExecutionEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
