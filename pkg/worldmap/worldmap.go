// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

// Package worldmap turns an enriched hop list into a visual path map.
// It extracts the geographically valid coordinates in hop order and
// renders them as point markers with a connecting line on an
// interactive HTML map.
package worldmap

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"os/exec"
	"runtime"

	"github.com/traceatlas/traceatlas/internal/logger"
	"github.com/traceatlas/traceatlas/pkg/trace"
)

// DefaultPath is the default path of the rendered map artifact.
const DefaultPath = "trace_map.html"

// ErrNoCoordinates is returned when no hop carries valid coordinates
// and there is nothing to draw.
var ErrNoCoordinates = errors.New("no valid geographical coordinates found in the trace")

// Config is the configuration for the map sink.
type Config struct {
	// Enabled controls whether the map sink runs at all.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	// Path is where the rendered artifact is written.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
	// Open opens the rendered artifact in the default viewer.
	Open bool `json:"open" yaml:"open" mapstructure:"open"`
}

// Point is a single marker on the map.
type Point struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

// Points extracts the drawable points from the hop list, in hop order.
// Hops whose location is the sentinel are excluded; they carry no
// usable coordinates.
func Points(hops []trace.Hop) []Point {
	points := []Point{}
	for _, hop := range hops {
		if !hop.Location.Valid() {
			continue
		}
		points = append(points, Point{
			Lat: hop.Location.Lat,
			Lon: hop.Location.Lon,
			Popup: fmt.Sprintf("<b>Hop %d</b><br>IP: %s<br>Location: %s<br>ISP: %s",
				hop.Index, hop.IP, hop.Location, hop.Location.ISP),
		})
	}
	return points
}

var _ Renderer = (*HTMLRenderer)(nil)

// Renderer persists an ordered point list as a visualization artifact
// and returns the artifact's path.
type Renderer interface {
	Render(ctx context.Context, points []Point) (string, error)
}

// HTMLRenderer renders the path as a self-contained Leaflet map.
type HTMLRenderer struct {
	config Config
}

// NewHTMLRenderer creates a new HTML map renderer from the given config.
func NewHTMLRenderer(cfg Config) *HTMLRenderer {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	return &HTMLRenderer{config: cfg}
}

// Render writes the map artifact and optionally opens it in the default
// viewer. With zero points it returns [ErrNoCoordinates] and writes
// nothing.
func (r *HTMLRenderer) Render(ctx context.Context, points []Point) (string, error) {
	log := logger.FromContext(ctx)

	if len(points) == 0 {
		return "", ErrNoCoordinates
	}

	f, err := os.Create(r.config.Path)
	if err != nil {
		return "", fmt.Errorf("failed to create map artifact: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := mapTemplate.Execute(f, map[string]any{"Points": points}); err != nil {
		return "", fmt.Errorf("failed to render map artifact: %w", err)
	}
	log.InfoContext(ctx, "Rendered path map", "path", r.config.Path, "points", len(points))

	if r.config.Open {
		if err := openViewer(ctx, r.config.Path); err != nil {
			// Opening the viewer is best effort.
			log.WarnContext(ctx, "Failed to open map in viewer", "error", err)
		}
	}

	return r.config.Path, nil
}

// openViewer opens the artifact in the platform's default viewer.
func openViewer(ctx context.Context, path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", path)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		// Reap the viewer process without blocking the sink.
		_ = cmd.Wait()
	}()
	return nil
}

// mapTemplate draws the points as circle markers joined by a polyline,
// centered on the first valid hop. The point list is injected into the
// script context, where html/template JSON-encodes it.
var mapTemplate = template.Must(template.New("worldmap").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>traceatlas path map</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
const points = {{.Points}};
const map = L.map('map').setView([points[0].lat, points[0].lon], 4);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
const path = [];
for (const p of points) {
  path.push([p.lat, p.lon]);
  L.circleMarker([p.lat, p.lon], {radius: 8, color: 'red', fill: true, fillColor: 'red'})
    .bindPopup(p.popup)
    .addTo(map);
}
L.polyline(path, {weight: 2, color: 'blue', opacity: 0.8}).addTo(map);
</script>
</body>
</html>
`))
