package openapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()

	e := echo.New()
	RegisterRoutes(e, "Price List Publisher <API>")

	tests := []struct {
		name         string
		path         string
		wantStatus   int
		wantLocation string
		wantBody     []string
	}{
		{
			name:       "ui",
			path:       "/swagger/index.html",
			wantStatus: http.StatusOK,
			wantBody:   []string{`url: "/openapi.json"`, "Price List Publisher &lt;API&gt;"},
		},
		{name: "bare", path: "/swagger", wantStatus: http.StatusMovedPermanently, wantLocation: "/swagger/index.html"},
		{name: "slash", path: "/swagger/", wantStatus: http.StatusMovedPermanently, wantLocation: "/swagger/index.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			}
			for _, s := range tt.wantBody {
				assert.Contains(t, rec.Body.String(), s)
			}
		})
	}
}
