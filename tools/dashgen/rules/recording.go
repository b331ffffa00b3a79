package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newResource("plp-recording-rules", RuleGroup{
		Name: "plp-recording",
		Rules: []Rule{
			{
				Record: "plp:http_requests:rate5m",
				Expr:   `sum(rate(plp_http_requests_total[5m]))`,
			},
			{
				Record: "plp:http_errors:rate5m",
				Expr:   `sum(rate(plp_http_requests_total{status=~"5.."}[5m]))`,
			},
			{
				Record: "plp:transport_calls:rate5m",
				Expr:   `sum by (op, result) (rate(plp_transport_calls_total[5m]))`,
			},
			{
				Record: "plp:reconcile_actions:increase1h",
				Expr:   `sum by (category, action) (increase(plp_reconcile_actions_total[1h]))`,
			},
		},
	})
}
