// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package plugin

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gogama/wasihttp"
	"github.com/gogama/wasihttp/request"
	"github.com/gogama/wasihttp/transient"
)

// sensitiveParams contains query parameter names that are redacted from
// logged URLs. They are matched case-insensitively, as substrings.
var sensitiveParams = []string{
	"api_key",
	"apikey",
	"token",
	"password",
	"auth",
	"secret",
	"key",
	"credential",
}

// InstallLogging installs a handler which logs every send to logger
// when it ends, and logs at debug level when a send has to wait for its
// response. A nil logger means slog.Default().
//
// Successful sends are logged at debug level, or warn level for status
// codes of 400 and above. Failed sends are logged at warn level with
// the error and its transience category.
func InstallLogging(g *wasihttp.HandlerGroup, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	h := wasihttp.HandlerFunc(func(evt wasihttp.Event, e *request.Execution) {
		logSend(logger, evt, e)
	})
	g.PushBack(wasihttp.BeforeWait, h)
	g.PushBack(wasihttp.AfterExecutionEnd, h)
}

func logSend(logger *slog.Logger, evt wasihttp.Event, e *request.Execution) {
	attrs := []any{
		"method", e.Plan.Method,
		"url", SanitizeURL(e.Plan.URL),
	}
	if id := RequestID(e); id != "" {
		attrs = append(attrs, "request_id", id)
	}

	if evt == wasihttp.BeforeWait {
		logger.Debug("waiting for response", attrs...)
		return
	}

	attrs = append(attrs,
		"duration_ms", e.Duration().Milliseconds(),
		"waited", e.Waited,
	)
	if e.Err != nil {
		attrs = append(attrs,
			"error", e.Err.Error(),
			"transient", transient.Categorize(e.Err).String(),
		)
		logger.Warn("http request failed", attrs...)
		return
	}

	level := slog.LevelDebug
	if e.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	attrs = append(attrs, "status", e.StatusCode)
	logger.Log(context.Background(), level, "http request", attrs...)
}

// SanitizeURL renders u with sensitive query parameter values and any
// password redacted, so it is safe to log.
func SanitizeURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	q := u.Query()
	redacted := false
	for param := range q {
		if isSensitiveParam(param) {
			q.Set(param, "[REDACTED]")
			redacted = true
		}
	}

	safe := *u
	if redacted {
		safe.RawQuery = q.Encode()
	}
	return safe.Redacted()
}

func isSensitiveParam(param string) bool {
	lower := strings.ToLower(param)
	for _, sensitive := range sensitiveParams {
		if strings.Contains(lower, sensitive) {
			return true
		}
	}
	return false
}
