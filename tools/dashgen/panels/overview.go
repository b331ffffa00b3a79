package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

func upStat(title, description, metric string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(description).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(metric+Sel(), "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// HealthzStat returns a stat panel showing the health check status.
func HealthzStat() *stat.PanelBuilder {
	return upStat("Healthz", "Health check status (1 = ok, 0 = failing)", "plp_healthz_up")
}

// ReadyzStat returns a stat panel showing whether the ledger store is
// reachable.
func ReadyzStat() *stat.PanelBuilder {
	return upStat("Readyz", "Ledger store reachable (1 = ready, 0 = not ready)", "plp_readyz_up")
}

// LastRunStat returns a stat panel showing time since the last clean run.
// It turns yellow after two missed half-hourly runs and red after four.
func LastRunStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Last Clean Run").
		Description("Time since the last publication run that finished without errors").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`time() - plp_last_successful_run_timestamp_seconds`+Sel(), "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenYellowRed(3600, 7200)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// NextRunStat returns a stat panel showing time until the next scheduled run.
func NextRunStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Next Run").
		Description("Time until the next scheduled publication run").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`plp_scheduler_next_run_timestamp_seconds`+Sel()+` - time()`, "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
