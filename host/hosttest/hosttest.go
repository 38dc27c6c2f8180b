// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package hosttest provides a scripted, in-memory host.OutgoingHandler
// for tests.
//
// Each submitted request consumes the next queued Reply. A Reply can
// resolve immediately, so the response is ready on the first poll, or
// wait on a gate channel, so the caller has to block. Submitted
// requests are recorded as host.Messages for inspection.
package hosttest

import (
	"io"
	"sync"

	"github.com/gogama/wasihttp/host"
)

// A Reply scripts the host's answer to one request.
type Reply struct {
	// Reject, if non-nil, makes Handle fail synchronously with this
	// code, as a host does when it refuses a request outright.
	Reject *host.ErrorCode

	// Err, if non-nil, resolves the future with this transport error
	// instead of a response.
	Err *host.ErrorCode

	// Status is the response status. Zero means 200.
	Status int

	// Header holds the raw response header entries, in order.
	Header []host.FieldEntry

	// Chunks are the body segments, delivered one per read in order.
	Chunks [][]byte

	// BodyErr, if non-nil, is the stream fault reported after the last
	// chunk instead of a normal end of stream.
	BodyErr error

	// Gate, if non-nil, delays resolving the future until the channel is
	// closed or receives a value.
	Gate <-chan struct{}
}

// Handler is a scripted host. The zero value answers every request
// with an empty 200 response.
type Handler struct {
	mu       sync.Mutex
	replies  []Reply
	messages []*host.Message
	options  []*host.ConnectOptions
	bodies   []*Body
	resps    []*host.IncomingResponse
}

// Enqueue appends replies to the script.
func (h *Handler) Enqueue(replies ...Reply) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replies = append(h.replies, replies...)
}

// Handle implements host.OutgoingHandler.
func (h *Handler) Handle(req *host.OutgoingRequest, opts *host.RequestOptions) (*host.FutureIncomingResponse, error) {
	m, o, err := host.Take(req, opts)
	if err != nil {
		return nil, &host.ErrorCode{Kind: host.InternalError, Detail: err.Error()}
	}

	h.mu.Lock()
	h.messages = append(h.messages, m)
	h.options = append(h.options, o)
	var r Reply
	if len(h.replies) > 0 {
		r = h.replies[0]
		h.replies = h.replies[1:]
	}
	h.mu.Unlock()

	if r.Reject != nil {
		return nil, r.Reject
	}

	f, resolve := host.NewFutureIncomingResponse()
	if r.Gate == nil {
		h.resolve(resolve, r)
	} else {
		go func() {
			<-r.Gate
			h.resolve(resolve, r)
		}()
	}
	return f, nil
}

func (h *Handler) resolve(resolve host.Resolver, r Reply) {
	if r.Err != nil {
		resolve(nil, r.Err)
		return
	}
	status := r.Status
	if status == 0 {
		status = 200
	}
	b := &Body{chunks: r.Chunks, err: r.BodyErr}
	resp := host.NewIncomingResponse(status, host.ReceivedFields(r.Header), b)
	h.mu.Lock()
	h.bodies = append(h.bodies, b)
	h.resps = append(h.resps, resp)
	h.mu.Unlock()
	resolve(resp, nil)
}

// Messages returns the requests submitted so far, in order.
func (h *Handler) Messages() []*host.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*host.Message(nil), h.messages...)
}

// LastMessage returns the most recently submitted request, or nil.
func (h *Handler) LastMessage() *host.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.messages) == 0 {
		return nil
	}
	return h.messages[len(h.messages)-1]
}

// Options returns the request options of each submitted request.
func (h *Handler) Options() []*host.ConnectOptions {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*host.ConnectOptions(nil), h.options...)
}

// Bodies returns the response bodies created so far.
func (h *Handler) Bodies() []*Body {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*Body(nil), h.bodies...)
}

// Responses returns the incoming responses created so far.
func (h *Handler) Responses() []*host.IncomingResponse {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*host.IncomingResponse(nil), h.resps...)
}

// A Body is the source behind a scripted response body. It delivers at
// most one chunk per Read.
type Body struct {
	mu     sync.Mutex
	chunks [][]byte
	err    error
	reads  int
	closed bool
}

func (b *Body) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reads++
	for len(b.chunks) > 0 && len(b.chunks[0]) == 0 {
		b.chunks = b.chunks[1:]
	}
	if len(b.chunks) == 0 {
		if b.err != nil {
			return 0, b.err
		}
		return 0, io.EOF
	}
	n := copy(p, b.chunks[0])
	if n == len(b.chunks[0]) {
		b.chunks = b.chunks[1:]
	} else {
		b.chunks[0] = b.chunks[0][n:]
	}
	return n, nil
}

// Close records that the body was closed.
func (b *Body) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Closed reports whether the body was closed.
func (b *Body) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Reads returns the number of Read calls made on the body.
func (b *Body) Reads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}
