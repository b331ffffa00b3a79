package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/price-list-publisher/internal/engine"
	domain "github.com/donaldgifford/price-list-publisher/pkg/types"
)

// Composer formats the catalog without publishing it.
type Composer interface {
	Compose(ctx context.Context) (*engine.Composition, error)
}

// PreviewHandler renders the would-be channel messages as an HTML page.
type PreviewHandler struct {
	composer Composer
}

// NewPreviewHandler creates a new PreviewHandler.
func NewPreviewHandler(c Composer) *PreviewHandler {
	return &PreviewHandler{composer: c}
}

// Preview scrapes and formats the catalog and renders every block.
func (h *PreviewHandler) Preview(c echo.Context) error {
	comp, err := h.composer.Compose(c.Request().Context())
	switch {
	case errors.Is(err, engine.ErrNoData):
		return render(c, http.StatusOK, PreviewPage(&engine.Composition{}))
	case err != nil:
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "compose failed: " + err.Error()})
	}
	return render(c, http.StatusOK, PreviewPage(comp))
}

func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response())
}

// PreviewPage lists the blocks of every category in publication order.
func PreviewPage(comp *engine.Composition) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="fa" dir="rtl"><head><meta charset="UTF-8">`)
		b.WriteString(`<title>Price list preview</title>`)
		b.WriteString(`<style>body{font-family:sans-serif;max-width:48rem;margin:auto}` +
			`pre{white-space:pre-wrap;background:#f4f4f4;padding:1rem;border-radius:.5rem}</style>`)
		b.WriteString(`</head><body>`)

		if comp.Parts() == 0 {
			b.WriteString(`<p class="empty">No data scraped.</p>`)
		} else {
			fmt.Fprintf(&b, `<h1>%s</h1><p>%d items, %d orphan lines, %d messages</p>`,
				templ.EscapeString(comp.Date), comp.Items, comp.Orphans, comp.Parts())
		}

		for _, cat := range domain.Categories() {
			blocks := comp.Blocks[cat]
			if len(blocks) == 0 {
				continue
			}
			fmt.Fprintf(&b, `<section id="%s"><h2>%s %s</h2>`,
				templ.EscapeString(string(cat)), cat.Marker(), templ.EscapeString(cat.String()))
			for _, block := range blocks {
				fmt.Fprintf(&b, `<pre data-part="%d">%s</pre>`, block.Index, templ.EscapeString(block.Text))
			}
			b.WriteString(`</section>`)
		}

		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// RegisterPreviewRoutes adds the preview page to e.
func RegisterPreviewRoutes(e *echo.Echo, h *PreviewHandler) {
	e.GET("/preview", h.Preview)
}
