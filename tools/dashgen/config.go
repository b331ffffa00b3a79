package main

import "errors"

// KnownMetrics is the set of metric names exported by price-list-publisher
// plus recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"plp_http_request_duration_seconds": true,
	"plp_http_requests_total":           true,
	"plp_http_panics_total":             true,

	// Health metrics.
	"plp_healthz_up": true,
	"plp_readyz_up":  true,

	// Run metrics.
	"plp_runs_total":                            true,
	"plp_run_duration_seconds":                  true,
	"plp_runs_skipped_total":                    true,
	"plp_last_successful_run_timestamp_seconds": true,
	"plp_scheduler_next_run_timestamp_seconds":  true,

	// Scrape metrics.
	"plp_scraped_items_total":     true,
	"plp_scrape_duration_seconds": true,
	"plp_orphan_lines_total":      true,

	// Publication metrics.
	"plp_reconcile_actions_total":      true,
	"plp_category_parts":               true,
	"plp_transport_calls_total":        true,
	"plp_transport_duration_seconds":   true,
	"plp_transport_rate_limited_total": true,
	"plp_summary_published_total":      true,

	// Ledger metrics.
	"plp_ledger_errors_total": true,
	"plp_ledger_pruned_total": true,

	// Recording rules.
	"plp:http_requests:rate5m":         true,
	"plp:http_errors:rate5m":           true,
	"plp:transport_calls:rate5m":       true,
	"plp:reconcile_actions:increase1h": true,

	// Standard Prometheus metrics referenced in alerts.
	"up": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
