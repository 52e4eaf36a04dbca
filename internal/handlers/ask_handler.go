package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/models"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/services"
)

type AskHandler struct {
	askService *services.AskService
}

func NewAskHandler(askService *services.AskService) *AskHandler {
	return &AskHandler{askService: askService}
}

// POST /ask
func (h *AskHandler) Ask(c *fiber.Ctx) error {
	var req models.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return c.Status(400).JSON(fiber.Map{"error": "question is required"})
	}

	resp := h.askService.Ask(c.Context(), req.Question, req.DisplayPreference)
	return c.JSON(resp)
}
