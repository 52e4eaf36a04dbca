package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/repositories"
)

const defaultHistoryLimit = 20

type HistoryHandler struct {
	insightRepo repositories.InsightRepo
}

func NewHistoryHandler(repo repositories.InsightRepo) *HistoryHandler {
	return &HistoryHandler{insightRepo: repo}
}

// GET /insights?limit=20
func (h *HistoryHandler) GetRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit < 1 || limit > 100 {
		limit = defaultHistoryLimit
	}

	entries, err := h.insightRepo.Recent(limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to load insight history")
		return c.Status(500).JSON(fiber.Map{"error": "failed to load insight history"})
	}

	return c.JSON(fiber.Map{"insights": entries})
}
