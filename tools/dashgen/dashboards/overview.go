// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/price-list-publisher/tools/dashgen/panels"
)

// UID is the stable dashboard identifier.
const UID = "plp-overview"

// BuildOverview constructs the publisher overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Price List Publisher").
		Uid(UID).
		Tags([]string{"plp", "price-list-publisher"}).
		Refresh("1m").
		Time("now-24h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.LastRunStat()).
		WithPanel(panels.NextRunStat()))

	b.WithRow(dashboard.NewRowBuilder("Runs").
		WithPanel(panels.RunsByStatus()).
		WithPanel(panels.RunDuration()).
		WithPanel(panels.ScrapedItems()))

	b.WithRow(dashboard.NewRowBuilder("Channel").
		WithPanel(panels.ReconcileActions()).
		WithPanel(panels.CategoryParts()))

	b.WithRow(dashboard.NewRowBuilder("Telegram").
		WithPanel(panels.TransportCalls()).
		WithPanel(panels.TransportLatency()).
		WithPanel(panels.Failures()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyP95()).
		WithPanel(panels.ErrorRate()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
