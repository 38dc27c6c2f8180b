// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies errors from sending HTTP requests as
// transient or non-transient. The client never retries by itself, so
// this is handy for callers writing their own retry loops, and for
// other purposes such as bucketing error metrics.
//
// Categorize understands the host's diagnostic codes (*host.ErrorCode)
// as well as the raw system errors a host backend sees, so the same
// classification serves both sides of the host boundary.
package transient
