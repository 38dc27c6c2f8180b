// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
)

// ErrAlreadyTaken is returned by take-once operations, such as
// IncomingResponse.Consume or FutureIncomingResponse.Get, when the
// value has already been taken by a previous call.
var ErrAlreadyTaken = errors.New("wasihttp/host: already taken")

// A ResourceError describes a violation of the resource ownership
// rules. It is raised with panic, never returned.
type ResourceError struct {
	// Resource is the name of the resource type, e.g. "input-stream".
	Resource string
	// Op is the operation that was attempted, e.g. "drop".
	Op string
	// Reason describes the violation.
	Reason string
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("wasihttp/host: %s %s: %s", e.Resource, e.Op, e.Reason)
}

type resource struct {
	name     string
	parent   *resource
	children int
	dropped  bool
}

func (r *resource) init(name string, parent *resource) {
	r.name = name
	r.parent = parent
	if parent != nil {
		parent.children++
	}
}

func (r *resource) use(op string) {
	if r.dropped {
		panic(&ResourceError{Resource: r.name, Op: op, Reason: "resource already dropped"})
	}
}

func (r *resource) drop() {
	if r.dropped {
		panic(&ResourceError{Resource: r.name, Op: "drop", Reason: "resource already dropped"})
	}
	if r.children > 0 {
		panic(&ResourceError{
			Resource: r.name,
			Op:       "drop",
			Reason:   fmt.Sprintf("%d child resource(s) still alive", r.children),
		})
	}
	r.dropped = true
	if r.parent != nil {
		r.parent.children--
	}
}
