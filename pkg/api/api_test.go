// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/traceatlas/traceatlas/internal/probe"
	"github.com/traceatlas/traceatlas/pkg/geo"
	"github.com/traceatlas/traceatlas/pkg/trace"
)

// pipelineMock is a test double for the Pipeline interface.
type pipelineMock struct {
	RunFunc func(ctx context.Context, destination string) ([]trace.Hop, error)
}

func (m *pipelineMock) Run(ctx context.Context, destination string) ([]trace.Hop, error) {
	return m.RunFunc(ctx, destination)
}

func TestAPI_HandleTrace(t *testing.T) {
	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		destination string
		pipeline    *pipelineMock
		wantCode    int
		wantHops    int
		wantError   string
	}{
		{
			name:        "Successful trace returns hops",
			destination: "example.com",
			pipeline: &pipelineMock{
				RunFunc: func(ctx context.Context, destination string) ([]trace.Hop, error) {
					return []trace.Hop{
						{Index: 1, IP: "192.168.1.1", ObservedAt: now, Location: geo.Unknown},
						{Index: 2, IP: "142.250.80.46", ObservedAt: now, Location: geo.Location{Country: "United States", City: "New York", Region: "New York", Lat: 40.71, Lon: -74, ISP: "Google LLC"}},
					}, nil
				},
			},
			wantCode: http.StatusOK,
			wantHops: 2,
		},
		{
			name:        "Empty trace returns zero hops",
			destination: "203.0.113.5",
			pipeline: &pipelineMock{
				RunFunc: func(ctx context.Context, destination string) ([]trace.Hop, error) {
					return []trace.Hop{}, nil
				},
			},
			wantCode: http.StatusOK,
			wantHops: 0,
		},
		{
			name:        "Probe failure surfaces the diagnostic",
			destination: "no-such-host.invalid",
			pipeline: &pipelineMock{
				RunFunc: func(ctx context.Context, destination string) ([]trace.Hop, error) {
					return nil, &probe.InvocationError{Diagnostic: "Name or service not known"}
				},
			},
			wantCode:  http.StatusBadGateway,
			wantError: "Name or service not known",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(Config{}, tt.pipeline)
			srv := httptest.NewServer(a.routes(context.Background()))
			defer srv.Close()

			resp, err := http.Get(srv.URL + "/v1/trace/" + tt.destination)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantCode, resp.StatusCode)

			if tt.wantError != "" {
				var body errorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantError, body.Error)
				return
			}

			var body traceResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.destination, body.Destination)
			assert.Equal(t, tt.wantHops, body.TotalHops)
			assert.Len(t, body.Hops, tt.wantHops)
		})
	}
}

func TestAPI_Metrics(t *testing.T) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "traceatlas_test_counter",
		Help: "test counter",
	})
	counter.Inc()

	a := New(Config{}, &pipelineMock{}, counter)
	srv := httptest.NewServer(a.routes(context.Background()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Config{Address: ":8080"}.Validate())
	assert.ErrorIs(t, Config{}.Validate(), ErrEmptyListenAddress)
}

func TestNew_DefaultAddress(t *testing.T) {
	a := New(Config{}, &pipelineMock{})
	assert.Equal(t, DefaultAddress, a.config.Address)
}
