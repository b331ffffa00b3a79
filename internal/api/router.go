// Package api assembles the HTTP server: health checks, metrics, the Huma API and
// the preview page on a single Echo instance.
package api

import (
	"log/slog"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/price-list-publisher/api/openapi"
	"github.com/donaldgifford/price-list-publisher/internal/api/handlers"
	mw "github.com/donaldgifford/price-list-publisher/internal/api/middleware"
	"github.com/donaldgifford/price-list-publisher/internal/store"
)

// Engine is what the API needs from the publication engine.
type Engine interface {
	handlers.Publisher
	handlers.Composer
}

// Deps are the collaborators served by the router.
type Deps struct {
	Store    store.Store
	Engine   Engine
	Location *time.Location
	Logger   *slog.Logger
	Version  string
	// RunTimeout bounds runs started through the API.
	RunTimeout time.Duration
}

// NewRouter returns an Echo instance with every route registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(mw.Recovery(d.Logger))
	e.Use(mw.RequestLog(d.Logger))
	e.Use(mw.Metrics(mw.WithSkipPaths("/docs", openapi.SpecPath, "/openapi.yaml", "/schemas/*", "/swagger/index.html")))

	handlers.RegisterHealthRoutes(e, handlers.NewHealthHandler(d.Store))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	handlers.RegisterPreviewRoutes(e, handlers.NewPreviewHandler(d.Engine))

	const title = "Price List Publisher"
	openapi.RegisterRoutes(e, title)

	cfg := huma.DefaultConfig(title, d.Version)
	cfg.Info.Description = "Publishes the retailer price list to a messaging channel and " +
		"keeps the published messages in sync with the latest scrape."
	humaAPI := humaecho.New(e, cfg)

	handlers.RegisterPublishRoutes(humaAPI, handlers.NewPublishHandler(d.Engine, d.RunTimeout))
	handlers.RegisterLedgerRoutes(humaAPI, handlers.NewLedgerHandler(d.Store, d.Location))
	handlers.RegisterRunRoutes(humaAPI, handlers.NewRunsHandler(d.Store))

	return e
}
