package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// healthPaths are logged on their first success and on every failure.
var healthPaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog logs one structured line per request and tags the request with
// an X-Request-ID, reusing the caller's when present. Server errors log at
// ERROR, failing health checks at WARN, and repeated passing ones not at all.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var healthy sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := req.URL.Path
			status := c.Response().Status

			level, ok := requestLevel(&healthy, path, status)
			if !ok {
				return err
			}

			log.Log(req.Context(), level, "request",
				"method", req.Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)
			return err
		}
	}
}

// requestLevel picks the log level for a finished request. ok is false when
// the line is suppressed.
func requestLevel(healthy *sync.Map, path string, status int) (level slog.Level, ok bool) {
	if _, health := healthPaths[path]; health {
		if status < 200 || status >= 300 {
			healthy.Delete(path)
			return slog.LevelWarn, true
		}
		_, seen := healthy.LoadOrStore(path, struct{}{})
		return slog.LevelInfo, !seen
	}
	if status >= 500 {
		return slog.LevelError, true
	}
	return slog.LevelInfo, true
}
