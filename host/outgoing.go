// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package host

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxWriteAndFlush is the largest buffer OutputStream.BlockingWriteAndFlush
// accepts in a single call.
const MaxWriteAndFlush = 4096

var (
	// ErrInvalid is wrapped by errors returned when the host rejects a
	// value set on an OutgoingRequest or RequestOptions.
	ErrInvalid = errors.New("wasihttp/host: invalid value")

	// ErrBodyNotFinished is returned by OutgoingRequest.Contents when
	// the body was taken but never finished.
	ErrBodyNotFinished = errors.New("wasihttp/host: outgoing body not finished")
)

func invalid(field, value string) error {
	return fmt.Errorf("%w: %s %q", ErrInvalid, field, value)
}

// An OutgoingRequest is a request under construction by the guest.
//
// NewOutgoingRequest takes ownership of its headers: the caller must
// not modify or drop the Fields passed in.
type OutgoingRequest struct {
	res           resource
	headers       *Fields
	method        Method
	scheme        *Scheme
	authority     *string
	pathWithQuery *string
	body          *OutgoingBody
}

// NewOutgoingRequest returns a GET request with no scheme, authority,
// or path, carrying headers.
func NewOutgoingRequest(headers *Fields) *OutgoingRequest {
	headers.res.use("new-outgoing-request")
	r := &OutgoingRequest{method: MethodGet}
	r.res.init("outgoing-request", nil)
	headers.immutable = true
	headers.res.parent = &r.res
	r.res.children++
	r.headers = headers
	return r
}

// SetMethod sets the request method. Invalid tokens are rejected.
func (r *OutgoingRequest) SetMethod(m Method) error {
	r.res.use("set-method")
	if !m.Valid() {
		return invalid("method", string(m))
	}
	r.method = m
	return nil
}

// Method returns the request method.
func (r *OutgoingRequest) Method() Method {
	r.res.use("method")
	return r.method
}

// SetScheme sets the scheme. A nil scheme lets the host choose.
func (r *OutgoingRequest) SetScheme(s *Scheme) error {
	r.res.use("set-scheme")
	if s != nil && s.Kind == SchemeOther && !validScheme(s.Other) {
		return invalid("scheme", s.Other)
	}
	if s == nil {
		r.scheme = nil
	} else {
		c := *s
		r.scheme = &c
	}
	return nil
}

// Scheme returns the scheme, or nil if none was set.
func (r *OutgoingRequest) Scheme() *Scheme {
	r.res.use("scheme")
	if r.scheme == nil {
		return nil
	}
	c := *r.scheme
	return &c
}

// SetAuthority sets the authority ([userinfo@]host[:port]).
func (r *OutgoingRequest) SetAuthority(a *string) error {
	r.res.use("set-authority")
	if a != nil && (*a == "" || strings.ContainsAny(*a, "/?# \t\r\n") || hasCTL(*a)) {
		return invalid("authority", *a)
	}
	r.authority = copyString(a)
	return nil
}

// Authority returns the authority, or nil if none was set.
func (r *OutgoingRequest) Authority() *string {
	r.res.use("authority")
	return copyString(r.authority)
}

// SetPathWithQuery sets the request target, e.g. "/get?a=b".
func (r *OutgoingRequest) SetPathWithQuery(p *string) error {
	r.res.use("set-path-with-query")
	if p != nil && (*p == "" || (*p)[0] != '/' && *p != "*" || strings.ContainsAny(*p, "# \t\r\n") || hasCTL(*p)) {
		return invalid("path-with-query", *p)
	}
	r.pathWithQuery = copyString(p)
	return nil
}

// PathWithQuery returns the request target, or nil if none was set.
func (r *OutgoingRequest) PathWithQuery() *string {
	r.res.use("path-with-query")
	return copyString(r.pathWithQuery)
}

// Headers returns an immutable view of the request headers. The
// returned Fields is a child of r and must be dropped before r.
func (r *OutgoingRequest) Headers() *Fields {
	r.res.use("headers")
	return r.headers.child(&r.res)
}

// Body returns the request's OutgoingBody. It may be taken only once;
// later calls return ErrAlreadyTaken.
func (r *OutgoingRequest) Body() (*OutgoingBody, error) {
	r.res.use("body")
	if r.body != nil {
		return nil, ErrAlreadyTaken
	}
	b := &OutgoingBody{}
	b.res.init("outgoing-body", &r.res)
	r.body = b
	return b, nil
}

// Contents returns a snapshot of the complete request. If the body was
// taken it must have been finished with FinishBody.
func (r *OutgoingRequest) Contents() (*Message, error) {
	r.res.use("contents")
	m := &Message{
		Method: r.method,
		Header: r.headers.Entries(),
	}
	if r.scheme != nil {
		m.Scheme = *r.scheme
	}
	if r.authority != nil {
		m.Authority = *r.authority
	}
	if r.pathWithQuery != nil {
		m.PathWithQuery = *r.pathWithQuery
	} else {
		m.PathWithQuery = "/"
	}
	if r.body != nil {
		if !r.body.finished {
			return nil, ErrBodyNotFinished
		}
		m.Body = append([]byte(nil), r.body.buf.Bytes()...)
	}
	return m, nil
}

// Drop releases r and the headers it owns.
func (r *OutgoingRequest) Drop() {
	r.res.use("drop")
	if !r.headers.res.dropped {
		r.headers.res.drop()
	}
	r.res.drop()
}

// An OutgoingBody is the body of an OutgoingRequest. It is a child of
// the request, and the parent of the OutputStream returned by Write.
type OutgoingBody struct {
	res      resource
	buf      bytes.Buffer
	stream   *OutputStream
	finished bool
}

// Write returns the body's OutputStream. It may be taken only once.
func (b *OutgoingBody) Write() (*OutputStream, error) {
	b.res.use("write")
	if b.stream != nil {
		return nil, ErrAlreadyTaken
	}
	s := &OutputStream{body: b}
	s.res.init("output-stream", &b.res)
	b.stream = s
	return s, nil
}

// Drop releases b without finishing it. A host treats an unfinished
// body as an aborted request.
func (b *OutgoingBody) Drop() {
	b.res.drop()
}

// FinishBody signals that no more data will be written to b and
// releases it. Its OutputStream, if any, must already be dropped.
// Trailers are not supported by this host and must be nil.
func FinishBody(b *OutgoingBody, trailers *Fields) error {
	b.res.use("finish")
	if trailers != nil {
		return invalid("trailers", "unsupported")
	}
	b.res.drop()
	b.finished = true
	return nil
}

// An OutputStream writes bytes into an OutgoingBody.
type OutputStream struct {
	res  resource
	body *OutgoingBody
}

// BlockingWriteAndFlush writes p and waits until it is flushed. At most
// MaxWriteAndFlush bytes may be written per call.
func (s *OutputStream) BlockingWriteAndFlush(p []byte) error {
	s.res.use("blocking-write-and-flush")
	if len(p) > MaxWriteAndFlush {
		return &StreamError{
			Op:  "blocking-write-and-flush",
			Err: fmt.Errorf("%d bytes exceeds limit of %d", len(p), MaxWriteAndFlush),
		}
	}
	s.body.buf.Write(p)
	return nil
}

// Drop releases s.
func (s *OutputStream) Drop() {
	s.res.drop()
}

// RequestOptions carries per-request transport options.
type RequestOptions struct {
	res            resource
	connectTimeout *time.Duration
}

// NewRequestOptions returns options with every value left to the host
// default.
func NewRequestOptions() *RequestOptions {
	o := &RequestOptions{}
	o.res.init("request-options", nil)
	return o
}

// SetConnectTimeout sets the connect timeout. Nil means host default.
// Negative durations are rejected.
func (o *RequestOptions) SetConnectTimeout(d *time.Duration) error {
	o.res.use("set-connect-timeout")
	if d != nil && *d < 0 {
		return invalid("connect-timeout", d.String())
	}
	if d == nil {
		o.connectTimeout = nil
	} else {
		c := *d
		o.connectTimeout = &c
	}
	return nil
}

// ConnectTimeout returns the connect timeout, or nil for host default.
func (o *RequestOptions) ConnectTimeout() *time.Duration {
	o.res.use("connect-timeout")
	if o.connectTimeout == nil {
		return nil
	}
	c := *o.connectTimeout
	return &c
}

// Drop releases o.
func (o *RequestOptions) Drop() {
	o.res.drop()
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func hasCTL(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}
