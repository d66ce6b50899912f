package handlers

import (
	"github.com/gofiber/fiber/v2"

	"poolhall/internal/domain"
	applog "poolhall/internal/log"
	"poolhall/internal/services"
	"poolhall/internal/validate"
)

type OrderHandler struct {
	Orders  *services.OrderService
	Reports *services.ReportService
}

type saleReq struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type checkoutReq struct {
	Lines []services.CartLine `json:"lines"`
	Notes string              `json:"notes"`
}

type orderReq struct {
	Items []domain.OrderItem `json:"items"`
	Notes string             `json:"notes"`
}

func (h *OrderHandler) Sale(c *fiber.Ctx) error {
	var req saleReq
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	itemID, ok := validate.ID(req.ItemID)
	if !ok {
		return badRequest(c, "itemId")
	}
	if !validate.Qty(req.Quantity) {
		return badRequest(c, "quantity")
	}
	o, err := h.Orders.AddRetailSale(itemID, req.Quantity)
	if err != nil {
		return fail(c, "sale.add", err)
	}
	applog.Audit(c, "sale.add", map[string]any{"order_id": o.ID, "item_id": itemID, "qty": req.Quantity, "total": o.TotalPrice})
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req checkoutReq
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	if len(req.Lines) == 0 {
		return badRequest(c, "lines")
	}
	for _, l := range req.Lines {
		if _, ok := validate.ID(l.ItemID); !ok || !validate.Qty(l.Quantity) {
			return badRequest(c, "lines")
		}
	}
	o, err := h.Orders.Checkout(req.Lines, req.Notes)
	if err != nil {
		return fail(c, "checkout", err)
	}
	applog.Audit(c, "checkout", map[string]any{"order_id": o.ID, "lines": len(o.Items), "total": o.TotalPrice})
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	f, ok := recordFilter(c)
	if !ok {
		return badRequest(c, "filter")
	}
	return c.JSON(h.Reports.Orders(f))
}

// Create records an order without moving stock.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req orderReq
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	o, err := h.Orders.CreateOrder(req.Items, req.Notes)
	if err != nil {
		return fail(c, "order.create", err)
	}
	applog.Audit(c, "order.create", map[string]any{"order_id": o.ID, "total": o.TotalPrice})
	return c.Status(fiber.StatusCreated).JSON(o)
}

func (h *OrderHandler) Edit(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	var req orderReq
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	o, err := h.Orders.EditOrder(id, req.Items, req.Notes)
	if err != nil {
		return fail(c, "order.edit", err)
	}
	applog.Audit(c, "order.edit", map[string]any{"order_id": id, "total": o.TotalPrice})
	return c.JSON(o)
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Orders.DeleteOrder(id); err != nil {
		return fail(c, "order.delete", err)
	}
	applog.Audit(c, "order.delete", map[string]any{"order_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *OrderHandler) Void(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Orders.VoidOrder(id); err != nil {
		return fail(c, "order.void", err)
	}
	applog.Audit(c, "order.void", map[string]any{"order_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
