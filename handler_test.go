// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"fmt"
	"testing"

	"github.com/gogama/wasihttp/host/hosttest"
	"github.com/gogama/wasihttp/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerGroup_PushBack(t *testing.T) {
	testCases := []struct {
		name string
		evt  Event
		h    Handler
	}{
		{"nil handler", BeforeWait, nil},
		{"negative event", Event(-1), HandlerFunc(func(Event, *request.Execution) {})},
		{"unknown event", eventSentinel, HandlerFunc(func(Event, *request.Execution) {})},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			g := &HandlerGroup{}
			assert.Panics(t, func() { g.PushBack(testCase.evt, testCase.h) })
		})
	}
}

func TestHandlerGroup_Run(t *testing.T) {
	var calls []string
	record := func(name string) Handler {
		return HandlerFunc(func(evt Event, e *request.Execution) {
			calls = append(calls, fmt.Sprintf("%s.%s.%d", name, evt, e.StatusCode))
		})
	}

	g := &HandlerGroup{}
	g.run(AfterResponse, &request.Execution{})
	assert.Empty(t, calls)

	g.PushBack(AfterResponse, record("status"))
	g.PushBack(AfterResponse, record("metrics"))
	g.PushBack(AfterExecutionEnd, record("log"))

	g.run(BeforeSubmit, &request.Execution{StatusCode: 1})
	assert.Empty(t, calls)
	g.run(AfterResponse, &request.Execution{StatusCode: 404})
	g.run(AfterExecutionEnd, &request.Execution{StatusCode: 404})
	assert.Equal(t, []string{
		"status.AfterResponse.404",
		"metrics.AfterResponse.404",
		"log.AfterExecutionEnd.404",
	}, calls)
}

type waitKey struct{}

func TestHandlerGroup_BeforeWaitChain(t *testing.T) {
	testCases := []struct {
		name   string
		gated  bool
		events []string
	}{
		{
			name:  "ready on first poll",
			gated: false,
			events: []string{
				"BeforeExecutionStart",
				"BeforeSubmit",
				"AfterResponse",
				"AfterExecutionEnd",
			},
		},
		{
			name:  "host still pending",
			gated: true,
			events: []string{
				"BeforeExecutionStart",
				"BeforeSubmit",
				"BeforeWait:mark",
				"BeforeWait:release",
				"AfterResponse",
				"AfterExecutionEnd",
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			h := &hosttest.Handler{}
			gate := make(chan struct{})
			reply := hosttest.Reply{Status: 202}
			if testCase.gated {
				reply.Gate = gate
			}
			h.Enqueue(reply)

			var events []string
			g := &HandlerGroup{}
			for _, evt := range Events() {
				if evt == BeforeWait {
					continue
				}
				g.PushBack(evt, HandlerFunc(func(evt Event, _ *request.Execution) {
					events = append(events, evt.String())
				}))
			}
			g.PushBack(BeforeWait, HandlerFunc(func(evt Event, e *request.Execution) {
				events = append(events, evt.String()+":mark")
				assert.True(t, e.Waited)
				assert.Equal(t, 0, e.StatusCode)
				assert.Len(t, h.Messages(), 1, "request must be submitted before the wait")
				e.SetValue(waitKey{}, "pending")
			}))
			g.PushBack(BeforeWait, HandlerFunc(func(evt Event, e *request.Execution) {
				events = append(events, evt.String()+":release")
				assert.Equal(t, "pending", e.Value(waitKey{}))
				close(gate)
			}))

			resp, err := (&Client{Host: h, Handlers: g}).Get("http://h/slow").Send()

			require.NoError(t, err)
			defer resp.Close()
			assert.Equal(t, 202, resp.Status())
			assert.Equal(t, testCase.events, events)
			assert.Equal(t, testCase.gated, resp.Execution().Waited)
		})
	}
}

func TestHandlerFunc(t *testing.T) {
	var got Event
	var gotExec *request.Execution
	h := HandlerFunc(func(evt Event, e *request.Execution) {
		got = evt
		gotExec = e
	})
	e := &request.Execution{}
	h.Handle(BeforeSubmit, e)

	assert.Equal(t, BeforeSubmit, got)
	assert.Same(t, e, gotExec)
}
