// SPDX-FileCopyrightText: 2026 The traceatlas authors
//
// SPDX-License-Identifier: Apache-2.0

// Package geo resolves IP addresses to geographic locations using the
// ip-api.com JSON endpoint. Lookups never fail loudly: every error
// condition degrades to the sentinel [Unknown] location and is reported
// as a warning, so a single unresolvable hop cannot abort a trace.
//
// The provider's free tier allows 45 requests per minute. The client
// enforces a minimum interval between consecutive outbound requests to
// stay below that ceiling; callers cannot bypass the delay.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/traceatlas/traceatlas/internal/helper"
	"github.com/traceatlas/traceatlas/internal/logger"
)

const (
	// DefaultBaseURL is the JSON endpoint of the geolocation provider.
	DefaultBaseURL = "http://ip-api.com/json"
	// DefaultMinInterval keeps the request rate below the provider's
	// free tier cap of 45 requests per minute.
	DefaultMinInterval = 1500 * time.Millisecond
	// DefaultTimeout bounds a single provider request.
	DefaultTimeout = 10 * time.Second
	// DefaultCacheTTL is how long a resolved location is served from
	// cache without issuing a new provider request.
	DefaultCacheTTL = 5 * time.Minute
)

// DefaultRetry is the default retry configuration for transport-level
// lookup failures. Status-level failures are never retried.
var DefaultRetry = helper.RetryConfig{
	Count: 2,
	Delay: DefaultMinInterval,
}

var _ Locator = (*Client)(nil)

// Locator resolves an IP address to a location. Implementations never
// return an error; failed lookups yield the sentinel [Unknown].
//
//go:generate go tool moq -out locator_moq.go . Locator
type Locator interface {
	Locate(ctx context.Context, ip string) Location
}

// Config is the configuration for the geolocation client.
type Config struct {
	// BaseURL is the provider's JSON endpoint.
	BaseURL string `json:"url" yaml:"url" mapstructure:"url"`
	// MinInterval is the mandatory delay between consecutive outbound
	// provider requests.
	MinInterval time.Duration `json:"minInterval" yaml:"minInterval" mapstructure:"minInterval"`
	// Timeout bounds a single provider request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// CacheTTL is the lifetime of cached lookup results.
	CacheTTL time.Duration `json:"cacheTTL" yaml:"cacheTTL" mapstructure:"cacheTTL"`
	// Retry is the retry configuration for transport-level failures.
	Retry helper.RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`
}

// withDefaults fills in zero fields with the package defaults.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MinInterval == 0 {
		c.MinInterval = DefaultMinInterval
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.Retry == (helper.RetryConfig{}) {
		c.Retry = DefaultRetry
	}
	return c
}

// Client is a rate-limited geolocation client. The "time of last call"
// marker is confined to the client instance; constructing one client per
// pipeline run keeps the timing state out of process-wide scope.
type Client struct {
	config  Config
	client  *http.Client
	cache   *gocache.Cache
	metrics metrics

	// mu serializes outbound requests so the inter-request
	// interval holds even with concurrent callers.
	mu       sync.Mutex
	lastCall time.Time
}

// NewClient creates a new geolocation client from the given config,
// falling back to the package defaults for unset fields.
func NewClient(cfg Config) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		cache:   gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		metrics: newMetrics(),
	}
}

// response is the provider's JSON document for a single IP.
type response struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Country    string  `json:"country"`
	City       string  `json:"city"`
	RegionName string  `json:"regionName"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	ISP        string  `json:"isp"`
}

// Locate resolves the given IP address. On any transport error, non-200
// response, malformed body or non-success provider status the sentinel
// [Unknown] is returned and the condition is logged as a warning.
func (c *Client) Locate(ctx context.Context, ip string) Location {
	log := logger.FromContext(ctx).With("ip", ip)

	if cached, ok := c.cache.Get(ip); ok {
		c.metrics.cacheHits.Inc()
		return cached.(Location)
	}

	loc := Unknown
	lookup := func(ctx context.Context) error {
		var err error
		loc, err = c.lookup(ctx, ip)
		return err
	}

	if err := helper.Retry(lookup, c.config.Retry)(ctx); err != nil {
		log.WarnContext(ctx, "Geolocation lookup failed", "error", err)
		c.metrics.failures.Inc()
		return Unknown
	}

	if loc == Unknown {
		// Provider answered but could not resolve the address. Not cached,
		// so a later run may still succeed.
		c.metrics.failures.Inc()
		return Unknown
	}

	c.cache.SetDefault(ip, loc)
	return loc
}

// lookup performs a single provider request. It returns an error only
// for retryable transport-level conditions; a well-formed non-success
// answer maps to the sentinel without an error.
func (c *Client) lookup(ctx context.Context, ip string) (Location, error) {
	if err := c.acquire(ctx); err != nil {
		return Unknown, err
	}
	c.metrics.lookups.Inc()

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return Unknown, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Unknown, fmt.Errorf("failed to query provider: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Unknown, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Unknown, fmt.Errorf("failed to parse provider response: %w", err)
	}

	if r.Status != "success" {
		log := logger.FromContext(ctx)
		log.WarnContext(ctx, "Provider could not resolve address", "ip", ip, "status", r.Status, "message", r.Message)
		return Unknown, nil
	}

	return Location{
		Country: orUnknown(r.Country),
		City:    orUnknown(r.City),
		Region:  orUnknown(r.RegionName),
		Lat:     r.Lat,
		Lon:     r.Lon,
		ISP:     orUnknown(r.ISP),
	}, nil
}

// acquire blocks until the minimum inter-request interval has elapsed
// since the previous outbound request, then claims the next slot.
func (c *Client) acquire(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastCall.IsZero() {
		if wait := c.config.MinInterval - time.Since(c.lastCall); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	c.lastCall = time.Now()
	return nil
}

// orUnknown substitutes the sentinel for missing provider fields.
func orUnknown(s string) string {
	if s == "" {
		return UnknownField
	}
	return s
}
