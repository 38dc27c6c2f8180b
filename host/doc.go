// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package host contains the resource model of a non-blocking host HTTP
transport in the style of wasi:http. Requests and responses are not
sockets but structured resources: an OutgoingRequest with an
OutgoingBody and OutputStream, a FutureIncomingResponse which becomes
ready when the host has the response head, and an IncomingResponse with
an IncomingBody and InputStream.

Resources form an ownership tree. A child (for example an InputStream)
must be dropped before the parent it was derived from (its
IncomingBody), which in turn must be dropped before its own parent
(the IncomingResponse). Violating the order, using a dropped resource,
or dropping a resource twice is a programming error and panics with a
*ResourceError so that it surfaces during development.

Resources are not safe for concurrent use. The only exception is the
resolution side of a FutureIncomingResponse, which a host backend may
complete from another goroutine.

Host backends implement OutgoingHandler. See packages hosttest and
nethost for a scripted in-memory host and a net/http backed host.
*/
package host
