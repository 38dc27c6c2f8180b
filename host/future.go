// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package host

import "sync"

// A FutureIncomingResponse represents an in-flight request. It becomes
// ready once the host has the response head, or has failed.
//
// A host backend creates it with NewFutureIncomingResponse and
// completes it, possibly from another goroutine, with the returned
// Resolver.
type FutureIncomingResponse struct {
	res   resource
	ready chan struct{}

	mu       sync.Mutex
	resolved bool
	taken    bool
	resp     *IncomingResponse
	err      error
}

// A Resolver completes a FutureIncomingResponse with either an
// incoming response or a transport error. It must be called exactly
// once.
type Resolver func(resp *IncomingResponse, err *ErrorCode)

// NewFutureIncomingResponse returns a pending future and its resolver.
func NewFutureIncomingResponse() (*FutureIncomingResponse, Resolver) {
	f := &FutureIncomingResponse{ready: make(chan struct{})}
	f.res.init("future-incoming-response", nil)
	return f, f.resolve
}

func (f *FutureIncomingResponse) resolve(resp *IncomingResponse, err *ErrorCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolved {
		panic("wasihttp/host: future resolved twice")
	}
	f.resolved = true
	f.resp = resp
	if err != nil {
		f.err = err
	}
	close(f.ready)
}

// Get polls the future without blocking.
//
// While the future is pending, ok is false. The first Get after it
// becomes ready returns ok true and the outcome: the incoming response,
// or a *ErrorCode describing the transport failure. Every later Get
// returns ok true and ErrAlreadyTaken.
func (f *FutureIncomingResponse) Get() (resp *IncomingResponse, ok bool, err error) {
	f.res.use("get")
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.resolved {
		return nil, false, nil
	}
	if f.taken {
		return nil, true, ErrAlreadyTaken
	}
	f.taken = true
	return f.resp, true, f.err
}

// Subscribe returns a Pollable which becomes ready when the future
// does. The Pollable is a child of f and must be dropped before it.
func (f *FutureIncomingResponse) Subscribe() *Pollable {
	f.res.use("subscribe")
	p := &Pollable{ready: f.ready}
	p.res.init("pollable", &f.res)
	return p
}

// Drop releases f. A response that was resolved but never taken is
// dropped with it.
func (f *FutureIncomingResponse) Drop() {
	f.res.drop()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolved && !f.taken && f.resp != nil {
		f.resp.Drop()
	}
}

// A Pollable is a readiness signal the caller can block on.
type Pollable struct {
	res   resource
	ready <-chan struct{}
}

// Ready reports, without blocking, whether the pollable is ready.
func (p *Pollable) Ready() bool {
	p.res.use("ready")
	select {
	case <-p.ready:
		return true
	default:
		return false
	}
}

// Block suspends the calling goroutine until the pollable is ready.
func (p *Pollable) Block() {
	p.res.use("block")
	<-p.ready
}

// Drop releases p.
func (p *Pollable) Drop() {
	p.res.drop()
}
