// Package middleware provides Echo middleware for price-list-publisher.
package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/price-list-publisher/internal/metrics"
)

// unmatchedPath labels requests that hit no registered route, keeping
// arbitrary URLs out of the label set.
const unmatchedPath = "unmatched"

// healthGauges maps the health routes to their up/down gauge.
var healthGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

type metricsConfig struct {
	skip map[string]struct{}
}

// MetricsOption configures the Metrics middleware.
type MetricsOption func(*metricsConfig)

// WithSkipPaths excludes additional routes from the request histogram and
// counter, e.g. the HTML preview page.
func WithSkipPaths(paths ...string) MetricsOption {
	return func(c *metricsConfig) {
		for _, p := range paths {
			c.skip[p] = struct{}{}
		}
	}
}

// Metrics returns Echo middleware that records request duration and status
// per route. /metrics and the health routes are never counted; the health
// routes set their gauge instead.
func Metrics(opts ...MetricsOption) echo.MiddlewareFunc {
	cfg := &metricsConfig{skip: map[string]struct{}{"/metrics": {}}}
	for p := range healthGauges {
		cfg.skip[p] = struct{}{}
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "" {
				route = unmatchedPath
			}

			if _, skip := cfg.skip[route]; skip {
				err := next(c)
				setHealthGauge(route, c.Response().Status)
				return err
			}

			start := time.Now()
			err := next(c)

			labels := prometheus.Labels{
				"method": c.Request().Method,
				"path":   route,
				"status": strconv.Itoa(c.Response().Status),
			}
			metrics.HTTPRequestDuration.With(labels).Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.With(labels).Inc()

			return err
		}
	}
}

func setHealthGauge(route string, status int) {
	gauge, ok := healthGauges[route]
	if !ok {
		return
	}
	if status >= 200 && status < 300 {
		gauge.Set(1)
		return
	}
	gauge.Set(0)
}
