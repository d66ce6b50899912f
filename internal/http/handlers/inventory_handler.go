package handlers

import (
	"github.com/gofiber/fiber/v2"

	"poolhall/internal/domain"
	applog "poolhall/internal/log"
	"poolhall/internal/services"
	"poolhall/internal/state"
)

// ItemHandler serves the retail catalog and its stock badges.
type ItemHandler struct {
	Catalog *services.CatalogService
	Inv     *services.InventoryService
	State   *state.Store
}

func (h *ItemHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.State.Snapshot().RetailItems)
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var it domain.RetailItem
	if err := parseBody(c, &it); err != nil {
		return badRequest(c, "body")
	}
	out, err := h.Catalog.AddRetailItem(it)
	if err != nil {
		return fail(c, "item.add", err)
	}
	applog.Audit(c, "item.add", map[string]any{"item_id": out.ID, "stock": out.Stock})
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	var p services.ItemPatch
	if err := parseBody(c, &p); err != nil {
		return badRequest(c, "body")
	}
	out, err := h.Catalog.UpdateRetailItem(id, p)
	if err != nil {
		return fail(c, "item.update", err)
	}
	applog.Audit(c, "item.update", map[string]any{"item_id": id, "stock": out.Stock})
	return c.JSON(out)
}

func (h *ItemHandler) Remove(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Catalog.RemoveRetailItem(id); err != nil {
		return fail(c, "item.remove", err)
	}
	applog.Audit(c, "item.remove", map[string]any{"item_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ItemHandler) Availability(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	return c.JSON(h.Inv.CheckAvailability(id))
}
