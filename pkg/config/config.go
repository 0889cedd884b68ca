// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/traceatlas/traceatlas/internal/logger"
	"github.com/traceatlas/traceatlas/internal/probe"
	"github.com/traceatlas/traceatlas/pkg/api"
	"github.com/traceatlas/traceatlas/pkg/geo"
	"github.com/traceatlas/traceatlas/pkg/worldmap"
)

// Config is the startup configuration of traceatlas.
type Config struct {
	// Geo is the configuration for the geolocation client
	Geo geo.Config `yaml:"geo" mapstructure:"geo"`
	// Probe is the configuration for the path probe runner
	Probe probe.Config `yaml:"probe" mapstructure:"probe"`
	// Map is the configuration for the map sink
	Map worldmap.Config `yaml:"map" mapstructure:"map"`
	// Output is the path of the file report; empty disables the file sink
	Output string `yaml:"output" mapstructure:"output"`
	// API is the configuration for the HTTP API server
	API api.Config `yaml:"api" mapstructure:"api"`
}

// maxRetryCount bounds the geolocation retry configuration; anything
// higher burns the provider's request budget for a single hop.
const maxRetryCount = 5

// Validate validates the startup config
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)

	if c.Geo.BaseURL != "" {
		if _, uErr := url.ParseRequestURI(c.Geo.BaseURL); uErr != nil {
			log.Error("The geolocation provider url is not a valid url", "url", c.Geo.BaseURL)
			err = errors.Join(err, ErrInvalidProviderURL)
		}
	}

	if c.Geo.MinInterval < 0 {
		log.Error("The geolocation request interval should be equal or above 0", "minInterval", c.Geo.MinInterval)
		err = errors.Join(err, ErrInvalidMinInterval)
	}

	if c.Geo.Retry.Count < 0 || c.Geo.Retry.Count >= maxRetryCount {
		log.Error("The amount of geolocation retries should be above 0 and below 5", "retryCount", c.Geo.Retry.Count)
		err = errors.Join(err, ErrInvalidRetryCount)
	}

	if vErr := c.API.Validate(); vErr != nil {
		log.Error("The api configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}
