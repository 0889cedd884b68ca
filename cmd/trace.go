// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/traceatlas/traceatlas/internal/logger"
	"github.com/traceatlas/traceatlas/internal/probe"
	"github.com/traceatlas/traceatlas/pkg/config"
	"github.com/traceatlas/traceatlas/pkg/geo"
	"github.com/traceatlas/traceatlas/pkg/report"
	"github.com/traceatlas/traceatlas/pkg/trace"
	"github.com/traceatlas/traceatlas/pkg/worldmap"
)

// NewCmdTrace creates the trace command
func NewCmdTrace() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <destination>",
		Short: "Trace the network path to a destination and map each hop",
		Long: "Trace invokes the system's path discovery utility against the destination,\n" +
			"annotates every observed hop with its approximate geographic origin and\n" +
			"hands the result to the configured sinks.",
		Args: cobra.MaximumNArgs(1),
		RunE: runTrace,
	}

	cmd.Flags().Bool("no-map", false, "disable map rendering")
	cmd.Flags().StringP("output", "o", "", "write the hop report to the given file")
	cmd.Flags().String("map-path", "", "path of the rendered map artifact")
	cmd.Flags().Bool("open", false, "open the rendered map in the default viewer")
	cmd.Flags().String("targets-file", "", "YAML file with additional destinations to trace")

	return cmd
}

func runTrace(cmd *cobra.Command, args []string) error {
	ctx, cancel := logger.NewContextWithLogger(cmd.Context())
	defer cancel()
	log := logger.FromContext(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	applyTraceFlags(cmd, cfg)

	destinations := slices.Clone(args)
	if targetsFile, _ := cmd.Flags().GetString("targets-file"); targetsFile != "" {
		targets, tErr := config.LoadTargets(targetsFile)
		if tErr != nil {
			return tErr
		}
		destinations = append(destinations, targets...)
	}
	if len(destinations) == 0 {
		return errors.New("no destination provided")
	}

	// One locator per invocation: its rate-limit marker covers every
	// destination traced in this run.
	locator := geo.NewClient(cfg.Geo)
	pipeline := trace.New(probe.NewRunner(cfg.Probe), locator)

	multi := len(destinations) > 1
	for _, destination := range destinations {
		hops, rErr := pipeline.Run(ctx, destination)
		if rErr != nil {
			report.WriteFailure(cmd.OutOrStdout(), rErr.Error())
			return rErr
		}

		if wErr := report.WriteText(cmd.OutOrStdout(), hops); wErr != nil {
			log.ErrorContext(ctx, "Failed to write console report", "error", wErr)
		}

		if cfg.Output != "" {
			path := sinkPath(cfg.Output, destination, multi)
			if wErr := report.WriteFile(path, hops); wErr != nil {
				// Fatal for this sink only; the remaining sinks still run.
				log.ErrorContext(ctx, "Failed to write file report", "path", path, "error", wErr)
			}
		}

		if cfg.Map.Enabled {
			renderMap(ctx, cmd, cfg, destination, hops, multi)
		}
	}

	return nil
}

// renderMap runs the map sink for a single destination. Failures are
// isolated here and never abort the run.
func renderMap(ctx context.Context, cmd *cobra.Command, cfg *config.Config, destination string, hops []trace.Hop, multi bool) {
	log := logger.FromContext(ctx)

	mapCfg := cfg.Map
	mapCfg.Path = sinkPath(mapCfg.Path, destination, multi)
	renderer := worldmap.NewHTMLRenderer(mapCfg)

	artifact, err := renderer.Render(ctx, worldmap.Points(hops))
	switch {
	case errors.Is(err, worldmap.ErrNoCoordinates):
		fmt.Fprintln(cmd.OutOrStdout(), "No valid geographical coordinates found in the trace")
	case err != nil:
		log.ErrorContext(ctx, "Failed to render map", "error", err)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Map written to %s\n", artifact)
	}
}

// applyTraceFlags overlays the trace command's flags onto the loaded
// configuration. Flags win over config file and environment.
func applyTraceFlags(cmd *cobra.Command, cfg *config.Config) {
	if noMap, _ := cmd.Flags().GetBool("no-map"); noMap {
		cfg.Map.Enabled = false
	}
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		cfg.Output = output
	}
	if mapPath, _ := cmd.Flags().GetString("map-path"); mapPath != "" {
		cfg.Map.Path = mapPath
	}
	if open, _ := cmd.Flags().GetBool("open"); open {
		cfg.Map.Open = true
	}
}

// sinkPath derives a per-destination artifact path when several
// destinations are traced in a single invocation.
func sinkPath(path, destination string, multi bool) string {
	if !multi {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%s%s", strings.TrimSuffix(path, ext), destination, ext)
}
