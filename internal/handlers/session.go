package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"stock-predictor/internal/models"
	"stock-predictor/internal/services"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

// Create handles POST /v1/sessions
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	session := h.sessions.Create()
	return c.Status(fiber.StatusCreated).JSON(session.View())
}

// Get handles GET /v1/sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	session, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(session.View())
}

// UpdateSelection handles PATCH /v1/sessions/:id/selection
func (h *SessionHandler) UpdateSelection(c *fiber.Ctx) error {
	var update models.SelectionUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
			Code:    fiber.StatusBadRequest,
		})
	}

	session, err := h.sessions.UpdateSelection(c.Params("id"), update)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(session.View())
}

// Predict handles POST /v1/sessions/:id/predict
func (h *SessionHandler) Predict(c *fiber.Ctx) error {
	session, _, err := h.sessions.Predict(c.Params("id"))
	if err != nil {
		return sessionError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(session.View())
}

// Delete handles DELETE /v1/sessions/:id
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return sessionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
			Error:   "Session not found",
			Message: err.Error(),
			Code:    fiber.StatusNotFound,
		})
	case errors.Is(err, services.ErrUnknownIndex),
		errors.Is(err, services.ErrUnknownSymbol),
		errors.Is(err, services.ErrInvalidNumber):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:   "Invalid selection",
			Message: err.Error(),
			Code:    fiber.StatusBadRequest,
		})
	default:
		return err
	}
}

// CustomErrorHandler handles Fiber errors
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(models.ErrorResponse{
		Error:   "Request failed",
		Message: err.Error(),
		Code:    code,
	})
}
