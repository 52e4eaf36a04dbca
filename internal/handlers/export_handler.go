package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/models"
	"github.com/MuhamadAgungGumelar/salesmart-insight-be/internal/services"
)

type ExportHandler struct {
	askService *services.AskService
	exporter   *export.Service
}

func NewExportHandler(askService *services.AskService, exporter *export.Service) *ExportHandler {
	return &ExportHandler{askService: askService, exporter: exporter}
}

// POST /ask/export?format=excel|pdf
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	var req models.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid request"})
	}

	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return c.Status(400).JSON(fiber.Map{"error": "question is required"})
	}

	format := export.Format(c.Query("format", string(export.FormatExcel)))
	if format != export.FormatExcel && format != export.FormatPDF {
		return c.Status(400).JSON(fiber.Map{"error": "format must be excel or pdf"})
	}

	answer, err := h.askService.AnswerTable(c.Context(), req.Question)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve question for export")
		return c.Status(500).JSON(fiber.Map{"error": "failed to resolve question"})
	}
	if len(answer.Rows) == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "no matching data to export"})
	}

	data, contentType, ext, err := h.exporter.Export(export.FromAnswer(req.Question, answer.Rows), format)
	if err != nil {
		log.Error().Err(err).Msg("failed to render export")
		return c.Status(500).JSON(fiber.Map{"error": "failed to render export"})
	}

	filename := fmt.Sprintf("answer-%s%s", time.Now().Format("20060102-150405"), ext)
	c.Set("Content-Type", contentType)
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}
