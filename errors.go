// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gogama/wasihttp/transient"
)

// Error kinds. Every error returned by this package is an *Error whose
// Kind is one of these values, so callers can test the kind with
// errors.Is.
var (
	// ErrURLParse means the request URL could not be parsed, or was not
	// absolute. It is deferred until Send.
	ErrURLParse = errors.New("URL parse error")
	// ErrInvalidHeaderValue means a header name or value was rejected.
	// It is deferred until Send.
	ErrInvalidHeaderValue = errors.New("invalid header value")
	// ErrSerialization means a query, form, JSON or POST body value
	// could not be encoded, or a response body could not be decoded.
	ErrSerialization = errors.New("serialization error")
	// ErrTransportSetup means the host rejected the method, scheme,
	// authority, path or options while the request was translated.
	ErrTransportSetup = errors.New("transport setup error")
	// ErrTransport means the host reported a transport failure such as
	// a DNS failure, refused connection, timeout or TLS failure. The
	// host's *host.ErrorCode is available with errors.As.
	ErrTransport = errors.New("transport error")
	// ErrInvalidHeaderEncoding means a response header value was not
	// valid UTF-8.
	ErrInvalidHeaderEncoding = errors.New("invalid header encoding")
	// ErrBodyRead means the response body stream failed.
	ErrBodyRead = errors.New("body read error")
	// ErrAlreadyConsumed means the host's future response was taken
	// twice. It is never returned; Client panics with it because it
	// denotes a broken host or a bug in this package.
	ErrAlreadyConsumed = errors.New("future response already consumed")
)

// An Error records the kind of a failure together with the request
// that caused it, in the manner of url.Error.
type Error struct {
	// Kind is one of the Err* kinds declared in this package.
	Kind error
	// Op is the method in title case, e.g. "Get" or "Post".
	Op string
	// URL is the request URL.
	URL string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("wasihttp: ")
	b.WriteString(e.Op)
	b.WriteByte(' ')
	b.WriteString(strconv.Quote(e.URL))
	b.WriteString(": ")
	b.WriteString(e.Kind.Error())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Timeout reports whether the underlying cause is a timeout.
func (e *Error) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

func newError(kind error, method, url string, err error) *Error {
	return &Error{
		Kind: kind,
		Op:   urlErrorOp(method),
		URL:  url,
		Err:  err,
	}
}

// urlErrorOp follows net/http/client.go.
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
