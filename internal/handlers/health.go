package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"stock-predictor/internal/catalog"
)

type HealthHandler struct {
	startTime   time.Time
	environment string
	catalog     *catalog.Catalog
	predictURL  string
}

func NewHealthHandler(environment string, cat *catalog.Catalog, predictURL string) *HealthHandler {
	return &HealthHandler{
		startTime:   time.Now(),
		environment: environment,
		catalog:     cat,
		predictURL:  predictURL,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "healthy",
		"service":     "stock-predictor",
		"version":     "1.0.0",
		"environment": h.environment,
		"uptime":      time.Since(h.startTime).String(),
		"time":        time.Now(),
	})
}

// Ready handles GET /health/ready. The prediction service is not probed:
// requests to it are only ever made on behalf of a user.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{
		"api":       "ok",
		"catalog":   "ok",
		"predictor": "ok",
	}
	ready := true
	if h.catalog == nil {
		checks["catalog"] = "missing"
		ready = false
	}
	if h.predictURL == "" {
		checks["predictor"] = "not configured"
		ready = false
	}

	status, code := "ready", fiber.StatusOK
	if !ready {
		status, code = "not ready", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}
