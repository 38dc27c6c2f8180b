// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package plugin

import (
	"github.com/gogama/wasihttp"
	"github.com/gogama/wasihttp/request"
	"github.com/google/uuid"
)

// DefaultRequestIDHeader is the header InstallRequestID uses when none
// is given.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// InstallRequestID installs a handler which gives every request a
// unique ID in the named header (DefaultRequestIDHeader if empty). A
// request which already carries the header keeps its value. Either way
// the ID is recorded on the execution and can be read with RequestID.
func InstallRequestID(g *wasihttp.HandlerGroup, header string) {
	if header == "" {
		header = DefaultRequestIDHeader
	}
	g.PushBack(wasihttp.BeforeExecutionStart, wasihttp.HandlerFunc(
		func(_ wasihttp.Event, e *request.Execution) {
			id := e.Plan.Header.Get(header)
			if id == "" {
				id = uuid.New().String()
				e.Plan.Header.Set(header, id)
			}
			e.SetValue(requestIDKey{}, id)
		}))
}

// RequestID returns the request ID recorded on e by InstallRequestID,
// or "" if there is none.
func RequestID(e *request.Execution) string {
	id, _ := e.Value(requestIDKey{}).(string)
	return id
}
