package middleware

import (
	"bazaarIntel/pkg/trace"

	"github.com/labstack/echo/v4"
)

// TraceID attaches a trace id to every request context so service and
// repository logs can be correlated. An incoming X-Trace-Id header is
// honored, otherwise a fresh id is generated.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tid := c.Request().Header.Get("X-Trace-Id")
			if tid == "" {
				tid = trace.NewID()
			}

			ctx := trace.WithTraceID(c.Request().Context(), tid)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set("X-Trace-Id", tid)

			return next(c)
		}
	}
}
