package middleware

import (
	"strconv"
	"time"

	"github.com/dafibh/underwriter/underwriter-backend/internal/metrics"
	"github.com/labstack/echo/v4"
)

// RequestMetrics records request counts and latency by route template, so
// /deals/1 and /deals/2 share a series
func RequestMetrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, route, strconv.Itoa(status), time.Since(start))
			return err
		}
	}
}
