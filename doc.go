// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package wasihttp provides a synchronous HTTP client built on a host
// transport that exposes requests and responses as resources, in the
// style of wasi:http, rather than as raw sockets.
//
// Create a Client and build a request:
//
//	client := &wasihttp.Client{}
//	resp, err := client.Get("http://example.com/get").
//		Query(map[string]string{"a": "b"}).
//		Header("Accept", "*/*").
//		Send()
//	if err != nil {
//		...
//	}
//	defer resp.Close()
//	var v map[string]map[string]string
//	err = resp.JSON(&v)
//
// Builder steps defer their errors: the first failing step is remembered,
// later steps do nothing, and Send returns the first error without
// contacting the host. Every error is an *Error, and its kind can be
// tested with errors.Is:
//
//	if errors.Is(err, wasihttp.ErrTransport) {
//		var code *host.ErrorCode
//		if errors.As(err, &code) { ... }
//	}
//
// Send translates the request into the host's outgoing-request resource,
// submits it and waits for the response. The wait blocks at most once, on
// the host's readiness signal, and never spins. Nothing is retried and
// redirects are never followed; package transient helps callers decide
// when a retry is worthwhile.
//
// The response body is read lazily with Response.Chunk, Response.Read or
// Response.Body. The host resources behind a response are released, in
// child-before-parent order, once the body ends or Close is called.
//
// The zero value Client sends through nethost.Default, which runs on
// net/http. Set Client.Host to use another host, such as the scripted
// host in package hosttest.
//
// To hook into the details of sending, install a handler into the
// appropriate handler chain:
//
//	handlers := &wasihttp.HandlerGroup{}
//	handlers.PushBack(wasihttp.BeforeExecutionStart, wasihttp.HandlerFunc(
//		func(_ wasihttp.Event, e *request.Execution) {
//			e.Plan.Header.Set("User-Agent", "my-agent/1.0")
//		}))
//	client := &wasihttp.Client{
//		Handlers: handlers,
//	}
//
// Package plugin has ready-made handlers for logging, request IDs and
// Prometheus metrics.
package wasihttp
