// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"errors"
	"net/url"

	"github.com/gogama/wasihttp/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do sends a finished request plan and returns the response (or error).
// Client implements the Doer interface, and any other Doer
// implementation must behave substantially the same as Client.Do.
type Doer interface {
	Do(p *request.Plan) (*Response, error)
}

// Get uses the specified Doer to issue a GET to the specified URL.
//
// To make a request with custom headers, use Client.Get or
// request.NewPlan and d.Do.
func Get(d Doer, url string) (*Response, error) {
	p, err := request.NewPlan("GET", url, nil)
	if err != nil {
		return nil, newError(ErrURLParse, "GET", url, err)
	}
	return d.Do(p)
}

// Head uses the specified Doer to issue a HEAD to the specified URL.
func Head(d Doer, url string) (*Response, error) {
	p, err := request.NewPlan("HEAD", url, nil)
	if err != nil {
		return nil, newError(ErrURLParse, "HEAD", url, err)
	}
	return d.Do(p)
}

// Post uses the specified Doer to issue a POST to the specified URL.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewPlan, namely: string; []byte; io.Reader;
// and io.ReadCloser. A body which cannot be buffered is reported as
// ErrSerialization.
func Post(d Doer, url, contentType string, body interface{}) (*Response, error) {
	p, err := request.NewPlan("POST", url, body)
	if err != nil {
		var bodyErr *request.BodyError
		if errors.As(err, &bodyErr) {
			return nil, newError(ErrSerialization, "POST", url, err)
		}
		return nil, newError(ErrURLParse, "POST", url, err)
	}
	p.Header.Set("Content-Type", contentType)
	return d.Do(p)
}

// PostForm uses the specified Doer to issue a POST to the specified URL,
// with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
func PostForm(d Doer, url string, data url.Values) (*Response, error) {
	return Post(d, url, contentTypeForm, data.Encode())
}
