// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package plugin contains optional event handlers for wasihttp.Client:
// structured request logging with log/slog, request-ID injection, and
// Prometheus metrics.
//
// Each plug-in installs itself into a HandlerGroup:
//
//	handlers := &wasihttp.HandlerGroup{}
//	plugin.InstallRequestID(handlers, "")
//	plugin.InstallLogging(handlers, slog.Default())
//	plugin.NewMetrics(prometheus.DefaultRegisterer).Install(handlers)
//	client := &wasihttp.Client{Handlers: handlers}
package plugin
