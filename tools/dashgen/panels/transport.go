package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// TransportCalls returns a timeseries panel of messaging API calls by
// operation and result.
func TransportCalls() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Telegram Calls").
		Description("Bot API calls per minute by method and result").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`sum by (op, result) (plp:transport_calls:rate5m) * 60`, "{{op}} {{result}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// TransportLatency returns a timeseries panel of p95 Bot API latency.
func TransportLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Telegram Latency (p95)").
		Description("95th percentile Bot API call duration, including rate limiter waits").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(P95("plp_transport_duration_seconds"), "p95", "A")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// Failures returns a timeseries panel of 429s, ledger errors and recovered
// panics.
func Failures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Failures").
		Description("Rate-limited Bot API calls, ledger errors and recovered panics per hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(plp_transport_rate_limited_total`+Sel()+`[1h])`, "429", "A")).
		WithTarget(PromQuery(`sum by (op) (increase(plp_ledger_errors_total`+Sel()+`[1h]))`, "ledger {{op}}", "B")).
		WithTarget(PromQuery(`increase(plp_http_panics_total`+Sel()+`[1h])`, "panics", "C")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(1, 5)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
