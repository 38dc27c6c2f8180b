// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"net/http"
	"time"

	"github.com/gogama/wasihttp/host"
	"github.com/gogama/wasihttp/request"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// A RequestBuilder accumulates a request through a chain of calls and
// sends it with Send.
//
// Builder steps never return errors directly. The first step to fail
// records its error, every later step becomes a no-op, and Send returns
// the recorded error without contacting the host. A later failing step
// never replaces the first error.
//
//	resp, err := client.Post("https://example.com/post").
//		Header("Accept", "*/*").
//		Form([][2]string{{"a", "b"}, {"c", ""}}).
//		Send()
//
// A RequestBuilder is not safe for concurrent use, and can be sent only
// once.
type RequestBuilder struct {
	client *Client
	method string
	rawURL string
	plan   *request.Plan
	err    error
	sent   bool
}

// Request starts building a request with the given method and URL. The
// URL is parsed immediately; a malformed or relative URL is recorded as
// an ErrURLParse error and surfaces at Send.
//
// The method is not checked until Send, where the host may reject it
// with ErrTransportSetup. Any valid token is accepted, so extension
// methods work.
func (c *Client) Request(method, url string) *RequestBuilder {
	if method == "" {
		method = string(host.MethodGet)
	}
	b := &RequestBuilder{client: c, method: method, rawURL: url}
	u, err := request.ParseURL(url)
	if err != nil {
		b.fail(ErrURLParse, err)
		return b
	}
	b.plan = &request.Plan{Method: method, URL: u}
	return b
}

// Get starts building a GET request.
func (c *Client) Get(url string) *RequestBuilder {
	return c.Request(http.MethodGet, url)
}

// Post starts building a POST request.
func (c *Client) Post(url string) *RequestBuilder {
	return c.Request(http.MethodPost, url)
}

// Put starts building a PUT request.
func (c *Client) Put(url string) *RequestBuilder {
	return c.Request(http.MethodPut, url)
}

// Delete starts building a DELETE request.
func (c *Client) Delete(url string) *RequestBuilder {
	return c.Request(http.MethodDelete, url)
}

// Head starts building a HEAD request.
func (c *Client) Head(url string) *RequestBuilder {
	return c.Request(http.MethodHead, url)
}

// Options starts building an OPTIONS request.
func (c *Client) Options(url string) *RequestBuilder {
	return c.Request(http.MethodOptions, url)
}

// Patch starts building a PATCH request.
func (c *Client) Patch(url string) *RequestBuilder {
	return c.Request(http.MethodPatch, url)
}

// Header sets key to the single value, replacing any values it had.
// The key keeps the caller's spelling. A name or value the host would
// reject fails with ErrInvalidHeaderValue.
func (b *RequestBuilder) Header(key, value string) *RequestBuilder {
	if b.err != nil {
		return b
	}
	if err := host.ValidateField(key, []byte(value)); err != nil {
		b.fail(ErrInvalidHeaderValue, err)
		return b
	}
	b.plan.Header.Set(key, value)
	return b
}

// AddHeader appends value to the values of key.
func (b *RequestBuilder) AddHeader(key, value string) *RequestBuilder {
	if b.err != nil {
		return b
	}
	if err := host.ValidateField(key, []byte(value)); err != nil {
		b.fail(ErrInvalidHeaderValue, err)
		return b
	}
	b.plan.Header.Add(key, value)
	return b
}

// Headers replaces the whole header set with pairs, in order. Headers
// do not accumulate across calls. If any pair is rejected, the header
// set is left unchanged and the step fails with ErrInvalidHeaderValue.
func (b *RequestBuilder) Headers(pairs [][2]string) *RequestBuilder {
	if b.err != nil {
		return b
	}
	for _, p := range pairs {
		if err := host.ValidateField(p[0], []byte(p[1])); err != nil {
			b.fail(ErrInvalidHeaderValue, err)
			return b
		}
	}
	b.plan.Header = request.HeaderOf(pairs...)
	return b
}

// Query encodes v in URL query form and appends it to the URL's
// existing query. See request.EncodeForm for the accepted types. An
// unsupported value fails with ErrSerialization.
func (b *RequestBuilder) Query(v interface{}) *RequestBuilder {
	if b.err != nil {
		return b
	}
	q, err := request.EncodeForm(v)
	if err != nil {
		b.fail(ErrSerialization, err)
		return b
	}
	request.MergeQuery(b.plan.URL, q)
	return b
}

// Body sets the raw request body. The Content-Type header is left
// untouched.
func (b *RequestBuilder) Body(body []byte) *RequestBuilder {
	if b.err != nil {
		return b
	}
	b.plan.Body = append([]byte(nil), body...)
	return b
}

// JSON sets the body to the JSON encoding of v and Content-Type to
// application/json, replacing any previous body and content type.
func (b *RequestBuilder) JSON(v interface{}) *RequestBuilder {
	if b.err != nil {
		return b
	}
	body, err := request.EncodeJSON(v)
	if err != nil {
		b.fail(ErrSerialization, err)
		return b
	}
	b.plan.Header.Set("Content-Type", contentTypeJSON)
	b.plan.Body = body
	return b
}

// Form sets the body to the form encoding of v and Content-Type to
// application/x-www-form-urlencoded, replacing any previous body and
// content type. See request.EncodeForm for the accepted types.
func (b *RequestBuilder) Form(v interface{}) *RequestBuilder {
	if b.err != nil {
		return b
	}
	body, err := request.EncodeForm(v)
	if err != nil {
		b.fail(ErrSerialization, err)
		return b
	}
	b.plan.Header.Set("Content-Type", contentTypeForm)
	b.plan.Body = []byte(body)
	return b
}

// ConnectTimeout sets the host connect timeout. It governs connection
// establishment only, not the whole exchange.
func (b *RequestBuilder) ConnectTimeout(d time.Duration) *RequestBuilder {
	if b.err != nil {
		return b
	}
	b.plan.ConnectTimeout = &d
	return b
}

// BasicAuth sets the Authorization header for HTTP Basic
// Authentication.
func (b *RequestBuilder) BasicAuth(username, password string) *RequestBuilder {
	if b.err != nil {
		return b
	}
	b.plan.SetBasicAuth(username, password)
	return b
}

// Cookie adds c to the Cookie header.
func (b *RequestBuilder) Cookie(c *http.Cookie) *RequestBuilder {
	if b.err != nil {
		return b
	}
	b.plan.AddCookie(c)
	return b
}

// Err returns the recorded error, if any.
func (b *RequestBuilder) Err() error {
	return b.err
}

// Plan returns a copy of the request built so far, or the recorded
// error.
func (b *RequestBuilder) Plan() (*request.Plan, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.plan.Clone(), nil
}

// Send sends the request and returns the response. If a builder step
// failed, its error is returned and the host is never contacted.
//
// Send panics if called more than once.
func (b *RequestBuilder) Send() (*Response, error) {
	if b.sent {
		panic("wasihttp: request already sent")
	}
	b.sent = true
	if b.err != nil {
		return nil, b.err
	}
	return b.client.Do(b.plan)
}

func (b *RequestBuilder) fail(kind, err error) {
	b.err = newError(kind, b.method, b.rawURL, err)
}
