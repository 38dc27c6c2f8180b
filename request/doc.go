// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package request contains the core types Plan (a fully specified HTTP
// request) and Execution (the state of one send of a Plan), together with
// the case-preserving Header list and the query, form and JSON encoders
// the request builder relies on.
//
// A Plan is what a RequestBuilder produces once every builder step has
// succeeded. It can also be created directly and sent with Client.Do:
//
//	p, err := request.NewPlan("GET", "https://example.com/get?a=b", nil)
//	...
//	p.Header.Set("Accept", "*/*")
//	resp, err := client.Do(p)
//	...
//
// The Plan URL is always absolute. Its path-with-query is sent exactly as
// PathWithQuery returns it, so a URL with no query never gains a trailing
// '?'.
//
// Execution is the input type for event handlers. You will typically not
// allocate Execution instances yourself, but will instead work with the
// ones handed out by the client while it sends a plan.
package request
