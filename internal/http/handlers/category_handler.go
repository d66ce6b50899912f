package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "poolhall/internal/log"
	"poolhall/internal/services"
	"poolhall/internal/state"
	"poolhall/internal/validate"
)

// CategoryHandler manages price categories and the default hourly rate.
type CategoryHandler struct {
	Catalog *services.CatalogService
	State   *state.Store
}

type categoryReq struct {
	Name       string  `json:"name"`
	HourlyRate float64 `json:"hourlyRate"`
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	snap := h.State.Snapshot()
	return c.JSON(fiber.Map{
		"categories":  snap.PriceCategories,
		"defaultRate": snap.HourlyRate,
	})
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req categoryReq
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "name")
	}
	cat, err := h.Catalog.AddPriceCategory(name, req.HourlyRate)
	if err != nil {
		return fail(c, "category.add", err)
	}
	applog.Audit(c, "category.add", map[string]any{"category_id": cat.ID, "rate": cat.HourlyRate})
	return c.Status(fiber.StatusCreated).JSON(cat)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	var req categoryReq
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "name")
	}
	if err := h.Catalog.UpdatePriceCategory(id, name, req.HourlyRate); err != nil {
		return fail(c, "category.update", err)
	}
	applog.Audit(c, "category.update", map[string]any{"category_id": id, "rate": req.HourlyRate})
	return c.SendStatus(fiber.StatusNoContent)
}

// Delete leaves tables pointing at the category; they bill at the default rate.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Catalog.DeletePriceCategory(id); err != nil {
		return fail(c, "category.delete", err)
	}
	applog.Audit(c, "category.delete", map[string]any{"category_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *CategoryHandler) SetRate(c *fiber.Ctx) error {
	var req categoryReq
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	if err := h.Catalog.SetHourlyRate(req.HourlyRate); err != nil {
		return fail(c, "rate.set", err)
	}
	applog.Audit(c, "rate.set", map[string]any{"rate": req.HourlyRate})
	return c.SendStatus(fiber.StatusNoContent)
}
