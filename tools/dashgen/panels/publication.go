package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ReconcileActions returns a timeseries panel of reconciler steps by action.
// A quiet price list shows only noop.
func ReconcileActions() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Reconcile Actions").
		Description("Send, edit, delete and noop steps per hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`sum by (action) (plp:reconcile_actions:increase1h)`, "{{action}}", "A")).
		FillOpacity(30).
		LineWidth(1).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}

// CategoryParts returns a timeseries panel of published parts per category.
func CategoryParts() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Parts per Category").
		Description("Message parts currently published for each category").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`plp_category_parts`+Sel(), "{{category}}", "A")).
		LineWidth(2).
		Legend(TableLegend("last")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
