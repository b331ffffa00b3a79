package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// RunsByStatus returns a bar chart of publication runs per hour by status.
func RunsByStatus() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Runs / hour").
		Description("Publication runs by final status").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`sum by (status) (increase(plp_runs_total`+Sel()+`[1h]))`, "{{status}}", "A")).
		WithTarget(PromQuery(`increase(plp_runs_skipped_total`+Sel()+`[1h])`, "skipped", "B")).
		FillOpacity(80).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// RunDuration returns a timeseries panel of p95 run and scrape durations.
func RunDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Run Duration (p95)").
		Description("95th percentile duration of whole runs and of the scrape within them").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(P95("plp_run_duration_seconds"), "run", "A")).
		WithTarget(PromQuery(P95("plp_scrape_duration_seconds"), "scrape", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ScrapedItems returns a timeseries panel of harvested items and dropped
// orphan lines per run window.
func ScrapedItems() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Scraped Items").
		Description("Raw items harvested and variant lines dropped for lack of a header").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`increase(plp_scraped_items_total`+Sel()+`[1h])`, "items", "A")).
		WithTarget(PromQuery(`increase(plp_orphan_lines_total`+Sel()+`[1h])`, "orphans", "B")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
