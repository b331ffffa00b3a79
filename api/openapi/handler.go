// Package openapi serves a Swagger UI for the API. The spec itself is
// generated at runtime by huma and served at SpecPath.
package openapi

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// SpecPath is where huma publishes the OpenAPI 3.1 document.
const SpecPath = "/openapi.json"

var swaggerUI = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "{{.SpecURL}}",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`))

// RegisterRoutes adds the Swagger UI under /swagger.
func RegisterRoutes(e *echo.Echo, title string) {
	page := func(c echo.Context) error {
		var b strings.Builder
		if err := swaggerUI.Execute(&b, struct{ Title, SpecURL string }{title, SpecPath}); err != nil {
			return err
		}
		return c.HTML(http.StatusOK, b.String())
	}

	e.GET("/swagger/index.html", page)
	e.GET("/swagger", redirectToUI)
	e.GET("/swagger/", redirectToUI)
}

func redirectToUI(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
}
