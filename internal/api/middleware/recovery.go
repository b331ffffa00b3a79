package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/price-list-publisher/internal/metrics"
)

const stackSize = 8 << 10

// problem mirrors the RFC 9457 body huma writes for its own errors, so
// clients see one error shape across the API.
type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Recovery returns Echo middleware that turns a handler panic into a 500
// problem response and logs the panic with its stack.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				stack := make([]byte, stackSize)
				stack = stack[:runtime.Stack(stack, false)]
				metrics.HTTPPanicsTotal.Inc()

				req := c.Request()
				log.Error("panic recovered",
					"error", fmt.Sprint(r),
					"method", req.Method,
					"path", req.URL.Path,
					"request_id", req.Header.Get(echo.HeaderXRequestID),
					"stack", string(stack),
				)

				if c.Response().Committed {
					return
				}
				c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
				err = c.JSON(http.StatusInternalServerError, problem{
					Title:  http.StatusText(http.StatusInternalServerError),
					Status: http.StatusInternalServerError,
					Detail: "internal server error",
				})
			}()
			return next(c)
		}
	}
}
