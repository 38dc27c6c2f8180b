// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package host

import "time"

// An OutgoingHandler submits outgoing requests to the host transport.
//
// Handle takes ownership of req and opts and is responsible for
// dropping them. It returns a future which yields the incoming
// response, or an error if the request was rejected before it could
// be sent. A returned error is always a *ErrorCode.
type OutgoingHandler interface {
	Handle(req *OutgoingRequest, opts *RequestOptions) (*FutureIncomingResponse, error)
}

// The OutgoingHandlerFunc type is an adapter to allow the use of
// ordinary functions as outgoing handlers.
type OutgoingHandlerFunc func(*OutgoingRequest, *RequestOptions) (*FutureIncomingResponse, error)

// Handle calls f(req, opts).
func (f OutgoingHandlerFunc) Handle(req *OutgoingRequest, opts *RequestOptions) (*FutureIncomingResponse, error) {
	return f(req, opts)
}

// Take is a helper for OutgoingHandler implementations. It snapshots
// req into a Message, reads the connect timeout from opts (which may be
// nil), and drops both.
func Take(req *OutgoingRequest, opts *RequestOptions) (*Message, *ConnectOptions, error) {
	m, err := req.Contents()
	if err != nil {
		return nil, nil, err
	}
	req.Drop()
	o := &ConnectOptions{}
	if opts != nil {
		o.ConnectTimeout = opts.ConnectTimeout()
		opts.Drop()
	}
	return m, o, nil
}

// ConnectOptions are the request options after they were handed over
// to a host backend.
type ConnectOptions struct {
	// ConnectTimeout is nil when the host default applies.
	ConnectTimeout *time.Duration
}
