package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/llm"
)

type HealthHandler struct {
	nlService *llm.Service
}

func NewHealthHandler(nlService *llm.Service) *HealthHandler {
	return &HealthHandler{nlService: nlService}
}

// GET /health
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	provider := "none"
	if h.nlService != nil {
		provider = h.nlService.GetProviderName()
	}
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "salesmart-api",
		"provider": provider,
	})
}
