// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// A Method is an HTTP request method. Besides the standard methods
// below, any valid token is accepted as an extension method.
type Method string

// Standard HTTP methods.
const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodPatch   Method = "PATCH"
)

// Valid reports whether m is a syntactically valid method token.
func (m Method) Valid() bool {
	return m != "" && strings.IndexFunc(string(m), isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

// A SchemeKind identifies the variant of a Scheme.
type SchemeKind int

const (
	// SchemeHTTP is plain "http".
	SchemeHTTP SchemeKind = iota
	// SchemeHTTPS is "https".
	SchemeHTTPS
	// SchemeOther is any other scheme, carried verbatim in
	// Scheme.Other.
	SchemeOther
)

// A Scheme is the URL scheme of an outgoing request.
type Scheme struct {
	Kind  SchemeKind
	Other string
}

// Predefined schemes.
var (
	HTTP  = Scheme{Kind: SchemeHTTP}
	HTTPS = Scheme{Kind: SchemeHTTPS}
)

// OtherScheme returns a Scheme of kind SchemeOther carrying s exactly
// as given.
func OtherScheme(s string) Scheme {
	return Scheme{Kind: SchemeOther, Other: s}
}

// String returns the textual scheme.
func (s Scheme) String() string {
	switch s.Kind {
	case SchemeHTTP:
		return "http"
	case SchemeHTTPS:
		return "https"
	default:
		return s.Other
	}
}

// validScheme follows RFC 3986 section 3.1:
// scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
func validScheme(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// An ErrorKind classifies a transport-level failure reported by the
// host.
type ErrorKind int

const (
	// InternalError is any failure without a more specific kind.
	InternalError ErrorKind = iota
	// DNSTimeout indicates name resolution timed out.
	DNSTimeout
	// DNSError indicates name resolution failed.
	DNSError
	// DestinationUnavailable indicates the destination could not be
	// reached.
	DestinationUnavailable
	// ConnectionRefused indicates the remote host refused the
	// connection.
	ConnectionRefused
	// ConnectionTerminated indicates the connection was reset or
	// closed unexpectedly.
	ConnectionTerminated
	// ConnectionTimeout indicates the connect timeout elapsed.
	ConnectionTimeout
	// ConnectionReadTimeout indicates a read timed out.
	ConnectionReadTimeout
	// TLSProtocolError indicates a TLS handshake or record failure.
	TLSProtocolError
	// TLSCertificateError indicates the peer certificate was rejected.
	TLSCertificateError
	// HTTPProtocolError indicates the peer did not speak valid HTTP.
	HTTPProtocolError
	// HTTPResponseIncomplete indicates the response ended early.
	HTTPResponseIncomplete
	// ConfigurationError indicates the request options could not be
	// honoured.
	ConfigurationError
	errorKindSentinel
)

var errorKindNames = []string{
	"internal-error",
	"DNS-timeout",
	"DNS-error",
	"destination-unavailable",
	"connection-refused",
	"connection-terminated",
	"connection-timeout",
	"connection-read-timeout",
	"TLS-protocol-error",
	"TLS-certificate-error",
	"HTTP-protocol-error",
	"HTTP-response-incomplete",
	"configuration-error",
}

// String returns the wasi:http style name of the error kind.
func (k ErrorKind) String() string {
	if k < 0 || k >= errorKindSentinel {
		return "unknown"
	}
	return errorKindNames[k]
}

// An ErrorCode is the diagnostic code a host reports when a request
// fails at the transport level (DNS failure, connection refused,
// timeout, TLS failure and so on).
type ErrorCode struct {
	Kind ErrorKind
	// Detail is optional free-form diagnostic text.
	Detail string
}

func (e *ErrorCode) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

// Timeout reports whether the error code denotes a timeout.
func (e *ErrorCode) Timeout() bool {
	switch e.Kind {
	case DNSTimeout, ConnectionTimeout, ConnectionReadTimeout:
		return true
	default:
		return false
	}
}

// ErrClosed is returned by InputStream.BlockingRead once the stream has
// ended. It denotes normal termination, not a failure.
var ErrClosed = errors.New("wasihttp/host: stream closed")

// A StreamError reports that the last stream operation failed. The
// stream cannot be used further.
type StreamError struct {
	Op  string
	Err error
}

func (e *StreamError) Error() string {
	return "wasihttp/host: " + e.Op + ": last operation failed: " + e.Err.Error()
}

func (e *StreamError) Unwrap() error {
	return e.Err
}
