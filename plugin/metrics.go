// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package plugin

import (
	"strconv"

	"github.com/gogama/wasihttp"
	"github.com/gogama/wasihttp/request"
	"github.com/gogama/wasihttp/transient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records Prometheus metrics for every send.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	waits    prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg. A nil reg
// means the metrics are created but not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wasihttp_requests_total",
				Help: "Total HTTP requests sent, by method and outcome",
			},
			[]string{"method", "status", "error"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wasihttp_request_duration_seconds",
				Help:    "Time from submitting a request until its response head or error",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		waits: factory.NewCounter(prometheus.CounterOpts{
			Name: "wasihttp_blocking_waits_total",
			Help: "Total sends which blocked waiting for the host to signal readiness",
		}),
	}
}

// Install installs the metrics handler into g.
func (m *Metrics) Install(g *wasihttp.HandlerGroup) {
	g.PushBack(wasihttp.AfterExecutionEnd, wasihttp.HandlerFunc(m.observe))
}

func (m *Metrics) observe(_ wasihttp.Event, e *request.Execution) {
	status, category := "", ""
	if e.Err != nil {
		status = "error"
		category = transient.Categorize(e.Err).String()
	} else {
		status = strconv.Itoa(e.StatusCode)
	}
	m.requests.WithLabelValues(e.Plan.Method, status, category).Inc()
	m.duration.WithLabelValues(e.Plan.Method).Observe(e.Duration().Seconds())
	if e.Waited {
		m.waits.Inc()
	}
}
