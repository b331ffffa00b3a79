package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLog_Fields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		path   string
		status int
		reqID  string
		want   []string
	}{
		{
			name:   "publish generates id",
			method: http.MethodPost,
			path:   "/api/v1/publish",
			status: http.StatusOK,
			want:   []string{"level=INFO", "method=POST", "path=/api/v1/publish", "status=200", "duration_ms=", "request_id="},
		},
		{
			name:   "caller id kept",
			method: http.MethodGet,
			path:   "/api/v1/ledger",
			status: http.StatusOK,
			reqID:  "cron-42",
			want:   []string{"request_id=cron-42"},
		},
		{
			name:   "conflict stays info",
			method: http.MethodPost,
			path:   "/api/v1/publish",
			status: http.StatusConflict,
			want:   []string{"level=INFO", "status=409"},
		},
		{
			name:   "server error",
			method: http.MethodGet,
			path:   "/api/v1/runs",
			status: http.StatusInternalServerError,
			want:   []string{"level=ERROR", "status=500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			e := echo.New()
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			if tt.reqID != "" {
				req.Header.Set(requestIDHeader, tt.reqID)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := RequestLog(slog.New(slog.NewTextHandler(&buf, nil)))(func(c echo.Context) error {
				return c.NoContent(tt.status)
			})
			require.NoError(t, h(c))

			for _, f := range tt.want {
				assert.Contains(t, buf.String(), f)
			}

			got := rec.Header().Get(requestIDHeader)
			require.NotEmpty(t, got)
			assert.Equal(t, got, c.Get("request_id"))
			if tt.reqID != "" {
				assert.Equal(t, tt.reqID, got)
			}
		})
	}
}

// TestRequestLog_HealthCheckSequence feeds a series of responses through one
// middleware instance and checks which requests produced a log line.
func TestRequestLog_HealthCheckSequence(t *testing.T) {
	t.Parallel()

	type call struct {
		path   string
		status int
		logged bool
	}

	tests := []struct {
		name  string
		calls []call
	}{
		{
			name: "healthz logged once while healthy",
			calls: []call{
				{"/healthz", http.StatusOK, true},
				{"/healthz", http.StatusOK, false},
				{"/healthz", http.StatusOK, false},
			},
		},
		{
			name: "readyz failures always logged",
			calls: []call{
				{"/readyz", http.StatusServiceUnavailable, true},
				{"/readyz", http.StatusServiceUnavailable, true},
			},
		},
		{
			name: "recovery after failure logged again",
			calls: []call{
				{"/readyz", http.StatusOK, true},
				{"/readyz", http.StatusOK, false},
				{"/readyz", http.StatusServiceUnavailable, true},
				{"/readyz", http.StatusOK, true},
				{"/readyz", http.StatusOK, false},
			},
		},
		{
			name: "health routes tracked separately",
			calls: []call{
				{"/healthz", http.StatusOK, true},
				{"/readyz", http.StatusOK, true},
				{"/healthz", http.StatusOK, false},
			},
		},
		{
			name: "api paths always logged",
			calls: []call{
				{"/api/v1/ledger", http.StatusOK, true},
				{"/api/v1/ledger", http.StatusOK, true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			e := echo.New()
			mw := RequestLog(slog.New(slog.NewTextHandler(&buf, nil)))

			for i, cl := range tt.calls {
				before := strings.Count(buf.String(), "\n")

				h := mw(func(c echo.Context) error { return c.NoContent(cl.status) })
				req := httptest.NewRequest(http.MethodGet, cl.path, http.NoBody)
				require.NoError(t, h(e.NewContext(req, httptest.NewRecorder())))

				after := strings.Count(buf.String(), "\n")
				if cl.logged {
					assert.Equal(t, before+1, after, "call %d should log", i)
				} else {
					assert.Equal(t, before, after, "call %d should be suppressed", i)
				}
				if cl.logged && cl.status >= 300 {
					assert.Contains(t, buf.String(), "level=WARN")
				}
			}
		})
	}
}
