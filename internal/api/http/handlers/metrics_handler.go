package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/supportdesk/internal/observability"
)

// MetricsHandler exposes the in-memory request counters to administrators.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs the handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Report handles GET /api/metrics.
func (h *MetricsHandler) Report(c *fiber.Ctx) error {
	requests, errs := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"requests": requests,
			"errors":   errs,
		},
	})
}
