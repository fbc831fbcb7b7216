package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts every endpoint on app
func RegisterRoutes(app *fiber.App, health *HealthHandler, catalogHandler *CatalogHandler, sessionHandler *SessionHandler) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Stock Predictor API",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	app.Get("/health", health.Health)
	app.Get("/health/ready", health.Ready)

	v1 := app.Group("/v1")
	v1.Get("/indices", catalogHandler.Indices)
	v1.Get("/indices/:id/companies", catalogHandler.Companies)

	v1.Post("/sessions", sessionHandler.Create)
	v1.Get("/sessions/:id", sessionHandler.Get)
	v1.Patch("/sessions/:id/selection", sessionHandler.UpdateSelection)
	v1.Post("/sessions/:id/predict", sessionHandler.Predict)
	v1.Delete("/sessions/:id", sessionHandler.Delete)
}
