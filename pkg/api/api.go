// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

// Package api exposes the trace pipeline over HTTP. It serves a single
// trace endpoint plus the prometheus metrics of the wired components.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/traceatlas/traceatlas/internal/logger"
	"github.com/traceatlas/traceatlas/pkg/trace"
)

// DefaultAddress is the default listen address of the API server.
const DefaultAddress = ":8080"

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Config is the configuration for the API server.
type Config struct {
	// Address is the address to listen on.
	Address string `json:"address" yaml:"address" mapstructure:"address"`
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyListenAddress
	}
	return nil
}

// Pipeline runs a trace to a destination on behalf of the API.
type Pipeline interface {
	Run(ctx context.Context, destination string) ([]trace.Hop, error)
}

// API is the HTTP surface of traceatlas.
type API struct {
	config   Config
	pipeline Pipeline
	registry *prometheus.Registry
	server   *http.Server
}

// New creates a new API server for the given pipeline. The passed
// collectors are registered on the server's metrics endpoint.
func New(cfg Config, p Pipeline, collectors ...prometheus.Collector) *API {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors...)

	return &API{
		config:   cfg,
		pipeline: p,
		registry: registry,
	}
}

// Run starts the API server and blocks until the context is canceled
// or the server fails.
func (a *API) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	a.server = &http.Server{
		Addr:              a.config.Address,
		Handler:           a.routes(ctx),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	cErr := make(chan error, 1)
	go func() {
		cErr <- a.server.ListenAndServe()
	}()
	log.InfoContext(ctx, "API server started", "address", a.config.Address)

	select {
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
		defer stop()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return errors.Join(ErrAPIShutdown, err)
		}
		return nil
	case err := <-cErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// routes builds the router of the API.
func (a *API) routes(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(logger.Middleware(ctx))
	r.Get("/v1/trace/{destination}", a.handleTrace)
	r.Handle("/metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}))
	return r
}

// traceResponse is the response document of the trace endpoint.
type traceResponse struct {
	Destination string      `json:"destination"`
	Hops        []trace.Hop `json:"hops"`
	TotalHops   int         `json:"totalHops"`
}

// errorResponse is the response document for failed traces.
type errorResponse struct {
	Error string `json:"error"`
}

func (a *API) handleTrace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	destination := chi.URLParam(r, "destination")

	w.Header().Set("Content-Type", "application/json")

	hops, err := a.pipeline.Run(ctx, destination)
	if err != nil {
		// The probe diagnostic is the whole story; surface it verbatim.
		w.WriteHeader(http.StatusBadGateway)
		if err := json.NewEncoder(w).Encode(errorResponse{Error: err.Error()}); err != nil {
			log.ErrorContext(ctx, "Failed to encode error response", "error", err)
		}
		return
	}

	if err := json.NewEncoder(w).Encode(traceResponse{
		Destination: destination,
		Hops:        hops,
		TotalHops:   len(hops),
	}); err != nil {
		log.ErrorContext(ctx, "Failed to encode trace response", "error", err)
	}
}
