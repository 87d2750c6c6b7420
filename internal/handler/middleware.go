package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/AbdulQureshi11/flight-listing-backend/internal/metrics"
)

// unmatchedRoute labels requests that hit no registered route.
const unmatchedRoute = "unmatched"

// Use installs the server middleware chain. Recover sits inside the request
// logger and metrics so a panic is still recorded as a 500.
func Use(e *echo.Echo, l zerolog.Logger) {
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(l))
	e.Use(Metrics())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
}

// Metrics records request count and latency per route template. Requests
// that match no route share one label.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			metrics.ObserveHTTP(metricsRoute(c), c.Request().Method, c.Response().Status, time.Since(start))
			return nil
		}
	}
}

// RequestLogger emits one http_request event per request.
func RequestLogger(l zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			r := c.Request()
			l.Info().
				Str("route", route(c)).
				Str("method", r.Method).
				Int("status", c.Response().Status).
				Dur("duration", time.Since(start)).
				Str("remote", c.RealIP()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("http_request")
			return nil
		}
	}
}

func metricsRoute(c echo.Context) string {
	if c.Path() == "" || c.Response().Status == http.StatusNotFound {
		return unmatchedRoute
	}
	return c.Path()
}

func route(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return c.Request().URL.Path
}
