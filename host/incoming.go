// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package host

import (
	"io"
)

// maxRead caps the buffer allocated by a single BlockingRead.
const maxRead = 1 << 20

// An IncomingResponse is the response head delivered by a
// FutureIncomingResponse, together with the not yet consumed body.
type IncomingResponse struct {
	res     resource
	status  int
	headers *Fields
	src     io.ReadCloser
	body    *IncomingBody
}

// NewIncomingResponse is used by host backends to build a response.
// It takes ownership of headers, which become immutable, and of body,
// which is closed when the response or its IncomingBody is dropped. A
// nil body is treated as empty.
func NewIncomingResponse(status int, headers *Fields, body io.ReadCloser) *IncomingResponse {
	if headers == nil {
		headers = NewFields()
	}
	headers.res.use("new-incoming-response")
	headers.immutable = true
	if body == nil {
		body = emptyBody{}
	}
	return newIncomingResponse(status, headers, body)
}

func newIncomingResponse(status int, headers *Fields, body io.ReadCloser) *IncomingResponse {
	r := &IncomingResponse{status: status, headers: headers, src: body}
	r.res.init("incoming-response", nil)
	return r
}

// Status returns the HTTP status code.
func (r *IncomingResponse) Status() int {
	r.res.use("status")
	return r.status
}

// Headers returns an immutable view of the response headers. The
// returned Fields is a child of r and must be dropped before r.
func (r *IncomingResponse) Headers() *Fields {
	r.res.use("headers")
	return r.headers.child(&r.res)
}

// Consume returns the response body. It may be taken only once; later
// calls return ErrAlreadyTaken.
func (r *IncomingResponse) Consume() (*IncomingBody, error) {
	r.res.use("consume")
	if r.body != nil {
		return nil, ErrAlreadyTaken
	}
	b := &IncomingBody{src: r.src}
	b.res.init("incoming-body", &r.res)
	r.body = b
	return b, nil
}

// Live reports whether r has not been dropped yet.
func (r *IncomingResponse) Live() bool {
	return !r.res.dropped
}

// Drop releases r. If the body was never consumed, the underlying
// source is closed.
func (r *IncomingResponse) Drop() {
	r.res.drop()
	r.headers.res.drop()
	if r.body == nil {
		_ = r.src.Close()
	}
}

// An IncomingBody is the body of an IncomingResponse. It is a child of
// the response and the parent of its InputStream.
type IncomingBody struct {
	res    resource
	src    io.ReadCloser
	stream *InputStream
}

// Stream returns the body's InputStream. It may be taken only once.
func (b *IncomingBody) Stream() (*InputStream, error) {
	b.res.use("stream")
	if b.stream != nil {
		return nil, ErrAlreadyTaken
	}
	s := &InputStream{src: b.src}
	s.res.init("input-stream", &b.res)
	b.stream = s
	return s, nil
}

// Drop releases b and closes the underlying source.
func (b *IncomingBody) Drop() {
	b.res.drop()
	_ = b.src.Close()
}

// An InputStream reads the bytes of an IncomingBody in arrival order.
type InputStream struct {
	res    resource
	src    io.Reader
	closed bool
	failed error
}

// BlockingRead blocks until at least one byte is available, the stream
// ends, or the stream fails, and returns at most n bytes. At the end
// of the stream it returns ErrClosed, on every call. After a failure
// it returns a *StreamError, on every call.
func (s *InputStream) BlockingRead(n uint64) ([]byte, error) {
	s.res.use("blocking-read")
	if s.failed != nil {
		return nil, &StreamError{Op: "blocking-read", Err: s.failed}
	}
	if s.closed {
		return nil, ErrClosed
	}
	if n == 0 {
		return []byte{}, nil
	}
	if n > maxRead {
		n = maxRead
	}
	buf := make([]byte, n)
	for {
		k, err := s.src.Read(buf)
		switch {
		case k > 0:
			if err == io.EOF {
				s.closed = true
			} else if err != nil {
				s.failed = err
			}
			return buf[:k], nil
		case err == io.EOF:
			s.closed = true
			return nil, ErrClosed
		case err != nil:
			s.failed = err
			return nil, &StreamError{Op: "blocking-read", Err: err}
		}
	}
}

// Drop releases s.
func (s *InputStream) Drop() {
	s.res.drop()
}

type emptyBody struct{}

func (emptyBody) Read([]byte) (int, error) { return 0, io.EOF }
func (emptyBody) Close() error             { return nil }
