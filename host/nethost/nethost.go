// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package nethost implements the host transport on top of net/http, so
// programs built with wasihttp can run as ordinary native binaries.
//
// Each submitted request is round-tripped on its own goroutine, which
// resolves the returned future when the response head arrives. The
// handler never follows redirects and never retries.
package nethost

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gogama/wasihttp/host"
	"github.com/gogama/wasihttp/transient"
	"golang.org/x/net/http2"
)

// DefaultConnectTimeout is the connect timeout used when neither the
// request options nor the Handler specify one.
const DefaultConnectTimeout = 30 * time.Second

// Default is the Handler used by a wasihttp.Client with no Handler.
var Default = &Handler{}

// Handler is a host.OutgoingHandler backed by http.Transport. The zero
// value is ready to use.
//
// One transport is kept per distinct connect timeout, so connections
// are pooled between requests that share a timeout.
type Handler struct {
	// ConnectTimeout is the host default connect timeout. Zero means
	// DefaultConnectTimeout.
	ConnectTimeout time.Duration

	// TLSClientConfig, if non-nil, is cloned into every transport.
	TLSClientConfig *tls.Config

	mu         sync.Mutex
	transports map[time.Duration]*http.Transport
}

// Handle implements host.OutgoingHandler.
func (h *Handler) Handle(req *host.OutgoingRequest, opts *host.RequestOptions) (*host.FutureIncomingResponse, error) {
	m, o, err := host.Take(req, opts)
	if err != nil {
		return nil, &host.ErrorCode{Kind: host.InternalError, Detail: err.Error()}
	}
	r, err := toHTTPRequest(m)
	if err != nil {
		return nil, err
	}
	t := h.transport(o.ConnectTimeout)
	f, resolve := host.NewFutureIncomingResponse()
	go func() {
		resp, err := t.RoundTrip(r)
		if err != nil {
			resolve(nil, Classify(err))
			return
		}
		fields := host.ReceivedFields(headerEntries(resp.Header))
		resolve(host.NewIncomingResponse(resp.StatusCode, fields, resp.Body), nil)
	}()
	return f, nil
}

// CloseIdleConnections closes idle connections on every transport.
func (h *Handler) CloseIdleConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, t := range h.transports {
		t.CloseIdleConnections()
	}
}

func (h *Handler) transport(connectTimeout *time.Duration) *http.Transport {
	d := h.ConnectTimeout
	if d <= 0 {
		d = DefaultConnectTimeout
	}
	if connectTimeout != nil {
		d = *connectTimeout
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.transports[d]; ok {
		return t
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   d,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if h.TLSClientConfig != nil {
		t.TLSClientConfig = h.TLSClientConfig.Clone()
	}
	// Only fails if t was already configured for HTTP/2.
	_, _ = http2.ConfigureTransports(t)
	if h.transports == nil {
		h.transports = make(map[time.Duration]*http.Transport)
	}
	h.transports[d] = t
	return t
}

func toHTTPRequest(m *host.Message) (*http.Request, error) {
	switch m.Scheme.Kind {
	case host.SchemeHTTP, host.SchemeHTTPS:
	default:
		return nil, &host.ErrorCode{Kind: host.HTTPProtocolError, Detail: "unsupported scheme " + m.Scheme.String()}
	}
	if m.Authority == "" {
		return nil, &host.ErrorCode{Kind: host.HTTPProtocolError, Detail: "missing authority"}
	}
	r, err := http.NewRequest(string(m.Method), m.URL(), bytes.NewReader(m.Body))
	if err != nil {
		return nil, &host.ErrorCode{Kind: host.HTTPProtocolError, Detail: err.Error()}
	}
	for _, e := range m.Header {
		r.Header[e.Name] = append(r.Header[e.Name], string(e.Value))
	}
	return r, nil
}

// headerEntries lowers names, as hosts report them, and sorts them for
// a stable order. Values for one name keep their received order.
func headerEntries(h http.Header) []host.FieldEntry {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)
	var entries []host.FieldEntry
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, v := range h[name] {
			entries = append(entries, host.FieldEntry{Name: lower, Value: []byte(v)})
		}
	}
	return entries
}

// Classify maps an error from http.Transport onto the host's
// diagnostic codes.
func Classify(err error) *host.ErrorCode {
	return &host.ErrorCode{Kind: classify(err), Detail: err.Error()}
}

func classify(err error) host.ErrorKind {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return host.DNSTimeout
		}
		return host.DNSError
	}

	var (
		unknownAuthority x509.UnknownAuthorityError
		hostname         x509.HostnameError
		invalid          x509.CertificateInvalidError
		verification     *tls.CertificateVerificationError
	)
	if errors.As(err, &unknownAuthority) || errors.As(err, &hostname) ||
		errors.As(err, &invalid) || errors.As(err, &verification) {
		return host.TLSCertificateError
	}

	var (
		record tls.RecordHeaderError
		alert  tls.AlertError
	)
	if errors.As(err, &record) || errors.As(err, &alert) {
		return host.TLSProtocolError
	}

	var opErr *net.OpError
	dial := errors.As(err, &opErr) && opErr.Op == "dial"

	switch transient.Categorize(err) {
	case transient.Timeout:
		if dial {
			return host.ConnectionTimeout
		}
		return host.ConnectionReadTimeout
	case transient.ConnRefused:
		return host.ConnectionRefused
	case transient.ConnReset:
		return host.ConnectionTerminated
	}

	switch {
	case dial:
		return host.DestinationUnavailable
	case errors.Is(err, io.EOF):
		return host.ConnectionTerminated
	case errors.Is(err, io.ErrUnexpectedEOF):
		return host.HTTPResponseIncomplete
	}
	return host.InternalError
}
