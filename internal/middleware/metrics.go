package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

// InitMetrics creates the fiberprometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a Fiber handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

// RegisterMetricsRoute exposes the Prometheus scrape endpoint on the app.
func RegisterMetricsRoute(app *fiber.App, prom *fiberprometheus.FiberPrometheus) {
	prom.RegisterAt(app, "/metrics")
}
