// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics defines the metric collectors of the trace pipeline
type metrics struct {
	runs *prometheus.CounterVec
	hops *prometheus.GaugeVec
}

// newMetrics initializes the metric collectors of the trace pipeline
func newMetrics() metrics {
	return metrics{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "traceatlas_trace_runs_total",
				Help: "Total number of trace pipeline runs and whether the probe invocation succeeded.",
			},
			[]string{"status"},
		),
		hops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "traceatlas_trace_hops",
				Help: "Number of hops observed on the most recent trace to the destination.",
			},
			[]string{"destination"},
		),
	}
}

// GetMetricCollectors returns all metric collectors of the pipeline
func (p *Pipeline) GetMetricCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		p.metrics.runs,
		p.metrics.hops,
	}
}
