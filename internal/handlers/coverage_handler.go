package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/coverage"
)

type CoverageHandler struct {
	guard *coverage.Guard
}

func NewCoverageHandler(guard *coverage.Guard) *CoverageHandler {
	return &CoverageHandler{guard: guard}
}

// GET /coverage
func (h *CoverageHandler) GetCoverage(c *fiber.Ctx) error {
	window := h.guard.Window(c.Context())
	return c.JSON(fiber.Map{
		"known":  window.Known(),
		"window": window,
		"text":   window.Text(),
	})
}
