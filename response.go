// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gogama/wasihttp/host"
	"github.com/gogama/wasihttp/request"
	"github.com/tidwall/gjson"
)

const (
	// DefaultChunkSize is the number of bytes Chunk reads when asked for
	// zero bytes.
	DefaultChunkSize = 64 * 1024

	// bodyChunkSize is the read size Body uses to drain the stream.
	bodyChunkSize = 1024 * 1024
)

var errResponseClosed = errors.New("response closed")

// A Response is an HTTP response received from the host.
//
// The status and headers are extracted when the Response is created,
// and the host's header resource is released straight away. The body
// is read lazily, either chunk by chunk with Chunk or Read, or all at
// once with Body.
//
// A Response owns the host's incoming-response, incoming-body and
// input-stream resources. They are released, stream first and response
// last, when the body has been read to the end, when a read fails, or
// when Close is called. Always Close a Response whose body you do not
// read to the end.
//
// A Response is not safe for concurrent use.
type Response struct {
	status  int
	headers []request.Field

	resp   *host.IncomingResponse
	body   *host.IncomingBody
	stream *host.InputStream

	done     bool
	closed   bool
	err      error
	buf      []byte
	buffered bool

	method string
	url    string
	exec   *request.Execution
}

// newResponse extracts the status and headers of inc and takes its
// body stream. On failure inc, and anything taken from it, has been
// dropped.
func newResponse(inc *host.IncomingResponse, p *request.Plan) (*Response, error) {
	r := &Response{
		status: inc.Status(),
		method: p.Method,
		url:    p.URL.Redacted(),
	}

	fields := inc.Headers()
	entries := fields.Entries()
	fields.Drop()
	r.headers = make([]request.Field, len(entries))
	for i, e := range entries {
		if !utf8.Valid(e.Value) {
			inc.Drop()
			return nil, r.wrapErr(ErrInvalidHeaderEncoding, fmt.Errorf("header %q", e.Name))
		}
		r.headers[i] = request.Field{Name: e.Name, Value: string(e.Value)}
	}

	body, err := inc.Consume()
	if err != nil {
		inc.Drop()
		return nil, r.wrapErr(ErrBodyRead, err)
	}
	stream, err := body.Stream()
	if err != nil {
		body.Drop()
		inc.Drop()
		return nil, r.wrapErr(ErrBodyRead, err)
	}
	r.resp, r.body, r.stream = inc, body, stream
	return r, nil
}

// Status returns the HTTP status code.
func (r *Response) Status() int {
	return r.status
}

// Headers returns the response headers as a map from name, as reported
// by the host, to value. If a name occurs more than once, the last
// value wins; use HeaderValues to see them all.
func (r *Response) Headers() map[string]string {
	m := make(map[string]string, len(r.headers))
	for _, f := range r.headers {
		m[f.Name] = f.Value
	}
	return m
}

// Header returns the value of the named header, matched without regard
// to case, or "" if there is none. Like Headers, it returns the last
// value if the header occurs more than once.
func (r *Response) Header(name string) string {
	v := ""
	for _, f := range r.headers {
		if strings.EqualFold(f.Name, name) {
			v = f.Value
		}
	}
	return v
}

// HeaderValues returns every value of the named header, matched without
// regard to case, in received order.
func (r *Response) HeaderValues(name string) []string {
	var values []string
	for _, f := range r.headers {
		if strings.EqualFold(f.Name, name) {
			values = append(values, f.Value)
		}
	}
	return values
}

// Execution returns the state of the send that produced r.
func (r *Response) Execution() *request.Execution {
	return r.exec
}

// Chunk blocks until at least one byte of the body is available and
// returns at most maxLen bytes of it, in arrival order. A maxLen of zero
// means DefaultChunkSize.
//
// At the end of the body Chunk returns nil and no error, and keeps
// doing so on every later call. A failure of the body stream is
// returned as an ErrBodyRead error, on this and every later call.
func (r *Response) Chunk(maxLen uint64) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.done {
		return nil, nil
	}
	if r.closed {
		return nil, r.wrapErr(ErrBodyRead, errResponseClosed)
	}
	if maxLen == 0 {
		maxLen = DefaultChunkSize
	}
	b, err := r.stream.BlockingRead(maxLen)
	switch {
	case err == nil:
		return b, nil
	case errors.Is(err, host.ErrClosed):
		r.done = true
		r.release()
		return nil, nil
	default:
		r.err = r.wrapErr(ErrBodyRead, err)
		r.release()
		return nil, r.err
	}
}

// Read implements io.Reader over the body, returning io.EOF at its end.
func (r *Response) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b, err := r.Chunk(uint64(len(p)))
	if err != nil {
		return 0, err
	}
	if b == nil {
		return 0, io.EOF
	}
	return copy(p, b), nil
}

// Body reads the rest of the body and returns it. The result is cached,
// so later calls return the same bytes. If part of the body was already
// read with Chunk or Read, only the remainder is returned.
func (r *Response) Body() ([]byte, error) {
	if r.buffered {
		return r.buf, nil
	}
	buf := []byte{}
	for {
		b, err := r.Chunk(bodyChunkSize)
		if err != nil {
			return nil, err
		}
		if b == nil {
			break
		}
		buf = append(buf, b...)
	}
	r.buf = buf
	r.buffered = true
	return buf, nil
}

// JSON reads the rest of the body and decodes it as JSON into v.
func (r *Response) JSON(v interface{}) error {
	b, err := r.Body()
	if err != nil {
		return err
	}
	if err = json.Unmarshal(b, v); err != nil {
		return r.wrapErr(ErrSerialization, err)
	}
	return nil
}

// JSONPath reads the rest of the body and returns the value at path, in
// gjson path syntax (for example "args.a" or "items.#.id"). A body that
// is not valid JSON is an ErrSerialization error.
func (r *Response) JSONPath(path string) (gjson.Result, error) {
	b, err := r.Body()
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(b) {
		return gjson.Result{}, r.wrapErr(ErrSerialization, errors.New("body is not valid JSON"))
	}
	return gjson.GetBytes(b, path), nil
}

// Close releases the host resources held by r. It is safe to call more
// than once, and after the body has been read to the end.
func (r *Response) Close() error {
	r.closed = true
	r.release()
	return nil
}

// release drops the input stream, then the incoming body, then the
// incoming response.
func (r *Response) release() {
	if r.stream != nil {
		r.stream.Drop()
		r.stream = nil
	}
	if r.body != nil {
		r.body.Drop()
		r.body = nil
	}
	if r.resp != nil {
		r.resp.Drop()
		r.resp = nil
	}
}

func (r *Response) wrapErr(kind, err error) *Error {
	return newError(kind, r.method, r.url, err)
}
