// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package geo

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics defines the metric collectors of the geolocation client
type metrics struct {
	lookups   prometheus.Counter
	failures  prometheus.Counter
	cacheHits prometheus.Counter
}

// newMetrics initializes the metric collectors of the geolocation client
func newMetrics() metrics {
	return metrics{
		lookups: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "traceatlas_geo_lookups_total",
				Help: "Total number of outbound geolocation provider requests.",
			},
		),
		failures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "traceatlas_geo_lookup_failures_total",
				Help: "Total number of geolocation lookups that degraded to the sentinel location.",
			},
		),
		cacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "traceatlas_geo_cache_hits_total",
				Help: "Total number of geolocation lookups served from the cache.",
			},
		),
	}
}

// GetMetricCollectors returns all metric collectors of the client
func (c *Client) GetMetricCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.metrics.lookups,
		c.metrics.failures,
		c.metrics.cacheHits,
	}
}
