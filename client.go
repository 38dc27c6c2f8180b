// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"time"

	"github.com/gogama/wasihttp/host"
	"github.com/gogama/wasihttp/host/nethost"
	"github.com/gogama/wasihttp/request"
)

var emptyHandlers = HandlerGroup{}

// A Client sends HTTP requests through a host transport. Its zero value
// is a valid configuration.
//
// The zero value client uses nethost.Default as the host, the host's
// default connect timeout, and an empty handler group (no event
// handlers/plug-ins).
//
// Each send owns its own chain of host resources from creation to
// release, so a Client holds no per-request state and is safe for
// concurrent use as long as its host is. Responses are not safe for
// concurrent use.
//
// Client never retries, never follows redirects and exposes no
// cancellation. A send either returns a complete Response head with a
// readable body, or a single *Error.
type Client struct {
	// Host is the transport requests are submitted to.
	//
	// If Host is nil, nethost.Default is used.
	Host host.OutgoingHandler
	// ConnectTimeout is the connect timeout applied to requests which
	// do not set their own. Zero leaves the host default in place.
	ConnectTimeout time.Duration
	// Handlers allows custom handler chains to be invoked when
	// designated events occur while a request is sent.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
}

// Do sends a finished request plan and returns the response.
//
// Do translates the plan into the host's outgoing-request resource,
// submits it, and waits for the response head, blocking at most once
// on the host's readiness signal. A non-2XX status code does not
// result in an error.
//
// Any returned error is an *Error whose Kind is ErrInvalidHeaderValue,
// ErrTransportSetup, ErrTransport, ErrInvalidHeaderEncoding or
// ErrBodyRead. Every
// host resource acquired before the failure has been released.
func (c *Client) Do(p *request.Plan) (*Response, error) {
	e := &request.Execution{
		Plan: p,
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()

	r, err := c.send(e, handlers)
	e.Err = err

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)
	return r, err
}

// CloseIdleConnections invokes the same method on the client's host,
// if it has one. Otherwise it does nothing.
func (c *Client) CloseIdleConnections() {
	type idleCloser interface {
		CloseIdleConnections()
	}
	if ic, ok := c.host().(idleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) host() host.OutgoingHandler {
	if c.Host == nil {
		return nethost.Default
	}

	return c.Host
}

func (c *Client) connectTimeout(p *request.Plan) *time.Duration {
	if p.ConnectTimeout != nil {
		return p.ConnectTimeout
	}
	if c.ConnectTimeout != 0 {
		d := c.ConnectTimeout
		return &d
	}
	return nil
}
