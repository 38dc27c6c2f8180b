// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"github.com/gogama/wasihttp/request"
)

// A HandlerGroup holds one handler chain per Event. Install it in a
// Client to observe or adjust sends, as package plugin does for request
// IDs, logging and metrics.
//
// The zero value is an empty group ready to use. A group may be shared
// by many clients, but PushBack must not be called while a send that
// uses the group is in progress.
type HandlerGroup struct {
	chains [numEvents][]Handler
}

// PushBack appends h to the chain for evt. It panics if h is nil or evt
// is not one of the values returned by Events.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("wasihttp: nil handler")
	}
	if evt < 0 || int(evt) >= numEvents {
		panic("wasihttp: invalid event")
	}
	g.chains[evt] = append(g.chains[evt], h)
}

// run calls the chain for evt in installation order on the sending
// goroutine. For BeforeWait, every handler has returned before the
// goroutine blocks on the host.
func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	for _, h := range g.chains[evt] {
		h.Handle(evt, e)
	}
}

// A Handler reacts to one step of a send. It receives the execution
// shared by every handler of that send, so a value stored by an early
// handler (see request.Execution.SetValue) is visible to later ones.
//
// Handlers run synchronously and must not block: a BeforeWait handler
// which waits on the host response it precedes will never return.
type Handler interface {
	Handle(Event, *request.Execution)
}

// HandlerFunc lets an ordinary function serve as a Handler.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
