// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gogama/wasihttp/host"
	"golang.org/x/net/idna"
)

var errNotAbsolute = errors.New("wasihttp/request: URL must be absolute (scheme and host required)")

// A Plan is a fully specified HTTP request, ready to be translated into
// the host's outgoing-request resource.
//
// Plans are usually produced by a RequestBuilder, but may be built
// directly with NewPlan and sent with Client.Do.
type Plan struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.). An empty
	// string means GET.
	Method string

	// URL is the absolute request URL. Its scheme selects the host
	// scheme, its user info and host form the authority, and its
	// escaped path and raw query form the path-with-query.
	URL *urlpkg.URL

	// Header contains the request header fields, in the order and
	// spelling they will be sent.
	Header Header

	// Body is the pre-buffered request body. A nil or empty body means
	// the request is sent with an empty body.
	Body []byte

	// ConnectTimeout optionally overrides the host's connect timeout.
	// Nil means the client default, or the host default if the client
	// has none.
	ConnectTimeout *time.Duration
}

// NewPlan returns a new Plan given a method, an absolute URL, and an
// optional body.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. The plan always owns its body
// bytes: a []byte is copied, and an io.Reader is read to the end and
// buffered. An io.ReadCloser is closed whether or not the read
// succeeds. A body NewPlan cannot buffer yields a *BodyError.
//
// A non-ASCII host is converted to its IDNA ASCII form, and an empty
// port ("host:") is removed.
func NewPlan(method, url string, body interface{}) (*Plan, error) {
	if method == "" {
		method = "GET"
	}
	if !host.Method(method).Valid() {
		return nil, fmt.Errorf("wasihttp/request: invalid method %q", method)
	}
	u, err := ParseURL(url)
	if err != nil {
		return nil, err
	}
	b, err := planBody(body)
	if err != nil {
		return nil, err
	}
	return &Plan{
		Method: method,
		URL:    u,
		Body:   b,
	}, nil
}

// ParseURL parses rawURL and normalizes its host. The URL must be
// absolute.
func ParseURL(rawURL string) (*urlpkg.URL, error) {
	u, err := urlpkg.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, &urlpkg.Error{Op: "parse", URL: rawURL, Err: errNotAbsolute}
	}
	h, err := asciiHost(removeEmptyPort(u.Host))
	if err != nil {
		return nil, &urlpkg.Error{Op: "parse", URL: rawURL, Err: err}
	}
	u.Host = h
	return u, nil
}

// Authority returns the URL authority: [userinfo@]host[:port].
func (p *Plan) Authority() string {
	if p.URL.User != nil {
		return p.URL.User.String() + "@" + p.URL.Host
	}
	return p.URL.Host
}

// PathWithQuery returns the request target exactly as it appears on the
// request line. The path defaults to "/" and the query, when present,
// is appended after a '?' without re-encoding.
func (p *Plan) PathWithQuery() string {
	path := p.URL.EscapedPath()
	if path == "" {
		path = "/"
	}
	if p.URL.RawQuery != "" {
		return path + "?" + p.URL.RawQuery
	}
	return path
}

// Clone returns a deep copy of p.
func (p *Plan) Clone() *Plan {
	p2 := new(Plan)
	*p2 = *p
	if p.URL != nil {
		u := *p.URL
		if p.URL.User != nil {
			user := *p.URL.User
			u.User = &user
		}
		p2.URL = &u
	}
	p2.Header = p.Header.Clone()
	if p.Body != nil {
		p2.Body = append([]byte(nil), p.Body...)
	}
	if p.ConnectTimeout != nil {
		d := *p.ConnectTimeout
		p2.ConnectTimeout = &d
	}
	return p2
}

// AddCookie adds a cookie to the request. Per RFC 6265 section 5.4,
// AddCookie does not attach more than one Cookie header field. That
// means all cookies, if any, are written into the same line,
// separated by semicolons.
//
// AddCookie only sanitizes c's name and value, and does not sanitize
// a Cookie header already present in the request.
func (p *Plan) AddCookie(c *http.Cookie) {
	c2 := &http.Cookie{Name: c.Name, Value: c.Value}
	s := c2.String()
	if h := p.Header.Get("Cookie"); h != "" {
		p.Header.Set("Cookie", h+"; "+s)
	} else {
		p.Header.Set("Cookie", s)
	}
}

// SetBasicAuth sets the plan's Authorization header to use HTTP Basic
// Authentication with the provided username and password.
//
// With HTTP Basic Authentication the provided username and password
// are not encrypted.
func (p *Plan) SetBasicAuth(username, password string) {
	p.Header.Set("Authorization", "Basic "+basicAuth(username, password))
}

// basicAuth follows net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// asciiHost converts the host part of hostport to ASCII, leaving any
// port and IPv6 literals alone.
func asciiHost(hostport string) (string, error) {
	if isASCII(hostport) {
		return hostport, nil
	}
	h, port := hostport, ""
	if hasPort(hostport) {
		i := strings.LastIndexByte(hostport, ':')
		h, port = hostport[:i], hostport[i:]
	}
	a, err := idna.Lookup.ToASCII(h)
	if err != nil {
		return "", err
	}
	return a + port, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// hasPort follows net/http/http.go.
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
