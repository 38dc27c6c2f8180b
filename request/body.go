// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"fmt"
	"io"
)

// A BodyError reports a body value NewPlan could not turn into the
// bytes of a request plan.
type BodyError struct {
	// Type is the dynamic type of the body value, as printed by %T.
	Type string
	// Err is the read or close failure. It is nil when the type is not
	// supported at all.
	Err error
}

func (e *BodyError) Error() string {
	if e.Err == nil {
		return "wasihttp/request: unsupported body type " + e.Type +
			" (use nil, string, []byte or io.Reader)"
	}
	return "wasihttp/request: reading " + e.Type + " body: " + e.Err.Error()
}

func (e *BodyError) Unwrap() error {
	return e.Err
}

// planBody buffers body into bytes the plan owns outright: a []byte is
// copied, so the caller may reuse it, and a reader is drained. A reader
// which is also an io.Closer is closed, even if reading fails.
func planBody(body interface{}) ([]byte, error) {
	switch x := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(x), nil
	case []byte:
		if x == nil {
			return nil, nil
		}
		return append([]byte{}, x...), nil
	case io.Reader:
		b, err := io.ReadAll(x)
		if c, ok := x.(io.Closer); ok {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}
		if err != nil {
			return nil, &BodyError{Type: fmt.Sprintf("%T", body), Err: err}
		}
		return b, nil
	default:
		return nil, &BodyError{Type: fmt.Sprintf("%T", body)}
	}
}
