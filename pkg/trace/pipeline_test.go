// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/traceatlas/traceatlas/internal/probe"
	"github.com/traceatlas/traceatlas/pkg/geo"
)

var testLocations = map[string]geo.Location{
	"10.11.0.1":     {Country: "Germany", City: "Frankfurt", Region: "Hesse", Lat: 50.11, Lon: 8.68, ISP: "Example Carrier"},
	"142.250.80.46": {Country: "United States", City: "New York", Region: "New York", Lat: 40.71, Lon: -74.0, ISP: "Google LLC"},
}

// newTestPipeline wires the pipeline with mocked collaborators and a
// frozen clock.
func newTestPipeline(t *testing.T, runner *probe.RunnerMock, locator *geo.LocatorMock, now time.Time) *Pipeline {
	t.Helper()
	p := New(runner, locator)
	p.now = func() time.Time { return now }
	return p
}

func TestPipeline_Run(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	output := "traceroute to google.com (142.250.80.46), 30 hops max, 60 byte packets\n" +
		" 1  192.168.1.1  1.123 ms  1.045 ms  0.987 ms\n" +
		" 2  * * *\n" +
		" 3  10.11.0.1  4.321 ms  4.210 ms  4.102 ms\n" +
		" 4  142.250.80.46  12.345 ms  12.210 ms  12.100 ms\n"

	runner := &probe.RunnerMock{
		RunFunc: func(ctx context.Context, destination string) (string, error) {
			return output, nil
		},
	}
	locator := &geo.LocatorMock{
		LocateFunc: func(ctx context.Context, ip string) geo.Location {
			if loc, ok := testLocations[ip]; ok {
				return loc
			}
			return geo.Unknown
		},
	}

	p := newTestPipeline(t, runner, locator, now)
	hops, err := p.Run(context.Background(), "google.com")
	require.NoError(t, err)

	want := []Hop{
		{Index: 1, IP: "192.168.1.1", ObservedAt: now, Location: geo.Unknown},
		{Index: 2, IP: "10.11.0.1", ObservedAt: now, Location: testLocations["10.11.0.1"]},
		{Index: 3, IP: "142.250.80.46", ObservedAt: now, Location: testLocations["142.250.80.46"]},
	}
	if !cmp.Equal(hops, want) {
		t.Errorf("unexpected hops: +want -got\n%s", cmp.Diff(hops, want))
	}

	// Enrichment happens in parse order, one lookup per accepted line.
	calls := locator.LocateCalls()
	require.Len(t, calls, 3)
	for i, call := range calls {
		assert.Equal(t, want[i].IP, call.IP)
	}
}

func TestPipeline_Run_ProbeFailure(t *testing.T) {
	runner := &probe.RunnerMock{
		RunFunc: func(ctx context.Context, destination string) (string, error) {
			return "", &probe.InvocationError{Diagnostic: "Name or service not known"}
		},
	}
	locator := &geo.LocatorMock{
		LocateFunc: func(ctx context.Context, ip string) geo.Location {
			return geo.Unknown
		},
	}

	p := newTestPipeline(t, runner, locator, time.Now())
	hops, err := p.Run(context.Background(), "no-such-host.invalid")

	require.Error(t, err)
	assert.Equal(t, "Name or service not known", err.Error(), "the probe diagnostic is propagated verbatim")
	assert.Nil(t, hops, "no partial hop list is produced on probe failure")
	assert.Empty(t, locator.LocateCalls(), "no lookups are issued when the probe fails")
}

func TestPipeline_Run_EmptyOutput(t *testing.T) {
	runner := &probe.RunnerMock{
		RunFunc: func(ctx context.Context, destination string) (string, error) {
			return "traceroute to 203.0.113.5 (203.0.113.5), 30 hops max\n", nil
		},
	}
	locator := &geo.LocatorMock{
		LocateFunc: func(ctx context.Context, ip string) geo.Location {
			return geo.Unknown
		},
	}

	p := newTestPipeline(t, runner, locator, time.Now())
	hops, err := p.Run(context.Background(), "203.0.113.5")

	require.NoError(t, err, "no path information is not an invocation failure")
	assert.Empty(t, hops)
	assert.Empty(t, locator.LocateCalls())
}

func TestPipeline_Run_AllLookupsDegraded(t *testing.T) {
	runner := &probe.RunnerMock{
		RunFunc: func(ctx context.Context, destination string) (string, error) {
			return " 1  10.0.0.1  1.0 ms\n 2  10.0.0.2  2.0 ms\n", nil
		},
	}
	locator := &geo.LocatorMock{
		LocateFunc: func(ctx context.Context, ip string) geo.Location {
			return geo.Unknown
		},
	}

	p := newTestPipeline(t, runner, locator, time.Now())
	hops, err := p.Run(context.Background(), "10.0.0.2")

	require.NoError(t, err, "lookup failures never fail the run")
	require.Len(t, hops, 2)
	for i, hop := range hops {
		assert.Equal(t, i+1, hop.Index)
		assert.Equal(t, geo.Unknown, hop.Location)
	}
}

func TestPipeline_Run_IndicesAreSequential(t *testing.T) {
	runner := &probe.RunnerMock{
		RunFunc: func(ctx context.Context, destination string) (string, error) {
			// The probe reports gaps; the emitted indices must not.
			return " 1  10.0.0.1  1 ms\n 4  10.0.0.4  4 ms\n 9  10.0.0.9  9 ms\n", nil
		},
	}
	locator := &geo.LocatorMock{
		LocateFunc: func(ctx context.Context, ip string) geo.Location {
			return geo.Unknown
		},
	}

	p := newTestPipeline(t, runner, locator, time.Now())
	hops, err := p.Run(context.Background(), "10.0.0.9")
	require.NoError(t, err)

	require.Len(t, hops, 3)
	for i, hop := range hops {
		assert.Equal(t, i+1, hop.Index, "hop index must equal its 1-based position")
	}
}
