// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package wasihttp

import (
	"errors"
	"time"

	"github.com/gogama/wasihttp/host"
	"github.com/gogama/wasihttp/request"
)

func (c *Client) send(e *request.Execution, handlers *HandlerGroup) (*Response, error) {
	p := e.Plan
	req, opts, err := translate(p, c.connectTimeout(p))
	if err != nil {
		return nil, err
	}

	handlers.run(BeforeSubmit, e)
	f, err := c.host().Handle(req, opts)
	if err != nil {
		return nil, planError(ErrTransport, p, err)
	}

	inc, err := await(f, p, e, handlers)
	f.Drop()
	if err != nil {
		return nil, planError(ErrTransport, p, err)
	}

	r, err := newResponse(inc, p)
	if err != nil {
		return nil, err
	}
	e.StatusCode = r.status
	e.ResponseHeader = r.Headers()
	r.exec = e
	handlers.run(AfterResponse, e)
	return r, nil
}

// translate builds the host's outgoing request and options for p. On
// failure, everything acquired so far has been dropped.
func translate(p *request.Plan, connectTimeout *time.Duration) (*host.OutgoingRequest, *host.RequestOptions, error) {
	fields, err := host.FieldsFromList(p.Header.Entries())
	if err != nil {
		return nil, nil, planError(ErrInvalidHeaderValue, p, err)
	}
	req := host.NewOutgoingRequest(fields)

	method := p.Method
	if method == "" {
		method = string(host.MethodGet)
	}
	if err = req.SetMethod(host.Method(method)); err != nil {
		req.Drop()
		return nil, nil, planError(ErrTransportSetup, p, err)
	}
	scheme := schemeOf(p.URL.Scheme)
	if err = req.SetScheme(&scheme); err != nil {
		req.Drop()
		return nil, nil, planError(ErrTransportSetup, p, err)
	}
	authority := p.Authority()
	if err = req.SetAuthority(&authority); err != nil {
		req.Drop()
		return nil, nil, planError(ErrTransportSetup, p, err)
	}
	pathWithQuery := p.PathWithQuery()
	if err = req.SetPathWithQuery(&pathWithQuery); err != nil {
		req.Drop()
		return nil, nil, planError(ErrTransportSetup, p, err)
	}
	if err = writeBody(req, p.Body); err != nil {
		req.Drop()
		return nil, nil, planError(ErrTransport, p, err)
	}

	opts := host.NewRequestOptions()
	if err = opts.SetConnectTimeout(connectTimeout); err != nil {
		opts.Drop()
		req.Drop()
		return nil, nil, planError(ErrTransportSetup, p, err)
	}
	return req, opts, nil
}

// schemeOf maps a URL scheme onto the host's scheme. Anything other
// than exactly "http" or "https" is passed through verbatim.
func schemeOf(s string) host.Scheme {
	switch s {
	case "http":
		return host.HTTP
	case "https":
		return host.HTTPS
	default:
		return host.OtherScheme(s)
	}
}

// writeBody writes body into the request's outgoing body and finishes
// it. The body is finished exactly once, even when empty. On failure,
// the stream and body have been dropped.
func writeBody(req *host.OutgoingRequest, body []byte) error {
	ob, err := req.Body()
	if err != nil {
		return err
	}
	if len(body) > 0 {
		s, err := ob.Write()
		if err != nil {
			ob.Drop()
			return err
		}
		for len(body) > 0 {
			n := min(len(body), host.MaxWriteAndFlush)
			if err = s.BlockingWriteAndFlush(body[:n]); err != nil {
				s.Drop()
				ob.Drop()
				return err
			}
			body = body[n:]
		}
		s.Drop()
	}
	if err = host.FinishBody(ob, nil); err != nil {
		ob.Drop()
		return err
	}
	return nil
}

// await turns the host's future into a blocking call. It polls once,
// and only if the response is not ready yet, blocks on the future's
// pollable and polls again.
func await(f *host.FutureIncomingResponse, p *request.Plan, e *request.Execution, handlers *HandlerGroup) (*host.IncomingResponse, error) {
	resp, ok, err := f.Get()
	if !ok {
		e.Waited = true
		handlers.run(BeforeWait, e)
		pollable := f.Subscribe()
		pollable.Block()
		pollable.Drop()
		resp, ok, err = f.Get()
		if !ok {
			panic("wasihttp: future response not ready after pollable signalled")
		}
	}
	if errors.Is(err, host.ErrAlreadyTaken) {
		panic(planError(ErrAlreadyConsumed, p, err))
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func planError(kind error, p *request.Plan, err error) *Error {
	return newError(kind, p.Method, p.URL.Redacted(), err)
}
