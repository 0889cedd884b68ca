// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

// Package trace turns raw path probe output into an ordered, enriched
// hop list. The [Pipeline] invokes the probe, parses its output via
// [ParseHops] and enriches every hop with a geolocation lookup.
package trace

import (
	"context"
	"time"

	"github.com/traceatlas/traceatlas/internal/logger"
	"github.com/traceatlas/traceatlas/internal/probe"
	"github.com/traceatlas/traceatlas/pkg/geo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Pipeline orchestrates a single trace run: probe invocation, output
// parsing and sequential geolocation enrichment.
type Pipeline struct {
	runner  probe.Runner
	locator geo.Locator
	metrics metrics
	tracer  trace.Tracer
	// now stamps hops at enrichment time; injectable for tests.
	now func() time.Time
}

// New creates a new trace pipeline using the given probe runner and
// geolocation locator.
func New(runner probe.Runner, locator geo.Locator) *Pipeline {
	return &Pipeline{
		runner:  runner,
		locator: locator,
		metrics: newMetrics(),
		tracer:  otel.Tracer("traceatlas/trace"),
		now:     time.Now,
	}
}

// Run traces the path to the destination and returns the ordered,
// enriched hop list. A non-nil error means the probe invocation itself
// failed; no partial hop list is produced in that case and the error
// text carries the probe's diagnostic output verbatim. Per-hop lookup
// failures do not fail the run, they degrade the hop's location to the
// sentinel.
func (p *Pipeline) Run(ctx context.Context, destination string) ([]Hop, error) {
	ctx, span := p.tracer.Start(ctx, "trace.run",
		trace.WithAttributes(attribute.String("trace.destination", destination)))
	defer span.End()
	log := logger.FromContext(ctx).With("destination", destination)

	log.InfoContext(ctx, "Starting path trace")
	out, err := p.runner.Run(ctx, destination)
	if err != nil {
		log.ErrorContext(ctx, "Probe invocation failed", "error", err)
		span.SetStatus(codes.Error, "probe invocation failed")
		span.RecordError(err)
		p.metrics.runs.WithLabelValues("failure").Inc()
		return nil, err
	}

	raw := ParseHops(out)
	if len(raw) == 0 {
		log.WarnContext(ctx, "Probe output contained no path information")
	}

	hops := make([]Hop, 0, len(raw))
	for i, rh := range raw {
		// Enrichment is strictly sequential: the locator owns a shared
		// inter-request rate limit that parallel lookups would violate.
		loc := p.locator.Locate(ctx, rh.IP)
		hops = append(hops, Hop{
			Index:      i + 1,
			IP:         rh.IP,
			ObservedAt: p.now(),
			Location:   loc,
		})
	}

	p.metrics.runs.WithLabelValues("success").Inc()
	p.metrics.hops.WithLabelValues(destination).Set(float64(len(hops)))
	span.SetAttributes(attribute.Int("trace.hops", len(hops)))
	log.InfoContext(ctx, "Path trace finished", "hops", len(hops))

	return hops, nil
}
