package rules

// AlertRules returns a PrometheusRule CR containing alert rules for
// price-list-publisher operational monitoring.
func AlertRules() PrometheusRule {
	return newResource("plp-alerts", RuleGroup{
		Name: "plp-alerts",
		Rules: []Rule{
			{
				Alert: "PlpDown",
				Expr:  `absent(up{job="price-list-publisher"})`,
				For:   "2m",
				Labels: map[string]string{
					"severity": "critical",
				},
				Annotations: map[string]string{
					"summary":     "Price list publisher is down",
					"description": "The price-list-publisher job has been absent for more than 2 minutes.",
				},
			},
			{
				Alert: "PlpReadinessDown",
				Expr:  `plp_readyz_up == 0`,
				For:   "5m",
				Labels: map[string]string{
					"severity": "critical",
				},
				Annotations: map[string]string{
					"summary":     "Ledger store unreachable",
					"description": "The readiness check has reported the ledger store unreachable for more than 5 minutes.",
				},
			},
			{
				Alert: "PlpChannelStale",
				Expr:  `time() - plp_last_successful_run_timestamp_seconds > 7200`,
				For:   "10m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Price list has not been published cleanly for 2 hours",
					"description": "No publication run has finished without errors in the last 2 hours; the channel may show stale prices.",
				},
			},
			{
				Alert: "PlpRunsFailing",
				Expr:  `increase(plp_runs_total{status=~"failed|partial"}[1h]) > 2`,
				For:   "0m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Publication runs are failing",
					"description": "More than two runs in the last hour finished failed or partial.",
				},
			},
			{
				Alert: "PlpNoData",
				Expr:  `increase(plp_runs_total{status="no_data"}[2h]) >= 3`,
				For:   "0m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Source page returned no items",
					"description": "Three or more runs in 2 hours scraped nothing; the retailer layout may have changed.",
				},
			},
			{
				Alert: "PlpTelegramRateLimited",
				Expr:  `increase(plp_transport_rate_limited_total[15m]) > 0`,
				For:   "0m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "Telegram is rate limiting the bot",
					"description": "The Bot API answered 429 Too Many Requests in the last 15 minutes; lower telegram.rate_limit.",
				},
			},
			{
				Alert: "PlpHighErrorRate",
				Expr:  `plp:http_errors:rate5m / plp:http_requests:rate5m > 0.05`,
				For:   "5m",
				Labels: map[string]string{
					"severity": "warning",
				},
				Annotations: map[string]string{
					"summary":     "High HTTP error rate on price list publisher",
					"description": "More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes.",
				},
			},
		},
	})
}
