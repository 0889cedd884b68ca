// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/traceatlas/traceatlas/internal/logger"
	"github.com/traceatlas/traceatlas/internal/probe"
	"github.com/traceatlas/traceatlas/pkg/api"
	"github.com/traceatlas/traceatlas/pkg/geo"
	"github.com/traceatlas/traceatlas/pkg/trace"
)

// NewCmdServe creates the serve command
func NewCmdServe() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run traceatlas as an HTTP service",
		Long: "Serve exposes the trace pipeline over HTTP: one endpoint per trace\n" +
			"plus the prometheus metrics of the wired components.",
		RunE: runServe,
	}

	cmd.Flags().String("address", "", "address for the API server to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := logger.NewContextWithLogger(cmd.Context())
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if address, _ := cmd.Flags().GetString("address"); address != "" {
		cfg.API.Address = address
	}

	locator := geo.NewClient(cfg.Geo)
	pipeline := trace.New(probe.NewRunner(cfg.Probe), locator)

	var collectors []prometheus.Collector
	collectors = append(collectors, pipeline.GetMetricCollectors()...)
	collectors = append(collectors, locator.GetMetricCollectors()...)

	return api.New(cfg.API, pipeline, collectors...).Run(ctx)
}
