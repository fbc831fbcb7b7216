package handlers

import (
	"github.com/gofiber/fiber/v2"

	"stock-predictor/internal/catalog"
	"stock-predictor/internal/models"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// Indices handles GET /v1/indices
func (h *CatalogHandler) Indices(c *fiber.Ctx) error {
	return c.JSON(h.catalog.Indices())
}

// Companies handles GET /v1/indices/:id/companies
func (h *CatalogHandler) Companies(c *fiber.Ctx) error {
	id, ok := catalog.ParseID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error: "Index not found",
			Code:  fiber.StatusNotFound,
		})
	}
	companies, _ := h.catalog.Companies(id)
	return c.JSON(companies)
}
