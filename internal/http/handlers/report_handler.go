package handlers

import (
	"github.com/gofiber/fiber/v2"

	"poolhall/internal/services"
)

type ReportHandler struct {
	Reports *services.ReportService
}

func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	return c.JSON(h.Reports.Summary())
}
