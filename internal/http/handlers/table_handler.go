package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"poolhall/internal/domain"
	applog "poolhall/internal/log"
	"poolhall/internal/queue"
	"poolhall/internal/services"
	"poolhall/internal/state"
	"poolhall/internal/validate"
)

type TableHandler struct {
	Sessions *services.SessionService
	Catalog  *services.CatalogService
	State    *state.Store
	Events   *queue.Publisher
}

// tableView is a table card: the table plus the rate it would bill at and
// its live timer values.
type tableView struct {
	domain.BilliardTable
	HourlyRate float64       `json:"hourlyRate"`
	Live       services.Live `json:"live"`
}

func (h *TableHandler) List(c *fiber.Ctx) error {
	snap := h.State.Snapshot()
	now := h.State.Now()
	out := make([]tableView, 0, len(snap.Tables))
	for _, t := range snap.Tables {
		rate := services.ResolveRate(t, snap.PriceCategories, snap.HourlyRate)
		if t.CurrentSession != nil {
			rate = t.CurrentSession.HourlyRate
		}
		out = append(out, tableView{BilliardTable: t, HourlyRate: rate, Live: services.LiveView(t, now)})
	}
	return c.JSON(out)
}

type tableReq struct {
	Name            string `json:"name"`
	PriceCategoryID string `json:"priceCategoryId"`
}

func (h *TableHandler) Create(c *fiber.Ctx) error {
	var req tableReq
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "name")
	}
	t, err := h.Catalog.AddTable(name, req.PriceCategoryID)
	if err != nil {
		return fail(c, "table.add", err)
	}
	applog.Audit(c, "table.add", map[string]any{"table_id": t.ID})
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *TableHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	var p services.TablePatch
	if err := parseBody(c, &p); err != nil {
		return badRequest(c, "body")
	}
	t, err := h.Catalog.UpdateTable(id, p)
	if err != nil {
		return fail(c, "table.update", err)
	}
	applog.Audit(c, "table.update", map[string]any{"table_id": id})
	return c.JSON(t)
}

func (h *TableHandler) Remove(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Catalog.RemoveTable(id); err != nil {
		return fail(c, "table.remove", err)
	}
	applog.Audit(c, "table.remove", map[string]any{"table_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

type startReq struct {
	SessionType   domain.SessionType `json:"sessionType"`
	FixedDuration *float64           `json:"fixedDuration"`
}

func (h *TableHandler) Start(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	req := startReq{SessionType: domain.SessionOpen}
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	sess, err := h.Sessions.StartSession(id, req.SessionType, req.FixedDuration)
	if err != nil {
		return fail(c, "session.start", err)
	}
	applog.Audit(c, "session.start", map[string]any{"table_id": id, "session_id": sess.ID, "type": sess.SessionType, "rate": sess.HourlyRate})
	return c.Status(fiber.StatusCreated).JSON(sess)
}

type endReq struct {
	ElapsedMs *int64 `json:"elapsedMs"`
}

// End stops a running table. Without an explicit elapsedMs the server's
// own timer value is frozen.
func (h *TableHandler) End(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	var req endReq
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	if req.ElapsedMs == nil {
		snap := h.State.Snapshot()
		for _, t := range snap.Tables {
			if t.ID == id && t.Status == domain.TableRunning {
				ms := services.LiveView(t, h.State.Now()).ElapsedMs
				req.ElapsedMs = &ms
				break
			}
		}
	}
	sess, err := h.Sessions.EndSession(id, req.ElapsedMs)
	if err != nil {
		return fail(c, "session.end", err)
	}
	applog.Audit(c, "session.end", map[string]any{"table_id": id, "session_id": sess.ID, "elapsed_ms": sess.EndedElapsedMs})
	return c.JSON(sess)
}

func (h *TableHandler) Pay(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	sess, err := h.Sessions.CompletePayment(id)
	if err != nil {
		return fail(c, "session.pay", err)
	}
	applog.Audit(c, "session.pay", map[string]any{"table_id": id, "session_id": sess.ID, "amount": sess.Amount()})

	if h.Events.Enabled() {
		ev := queue.EventFor(sess)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = h.Events.PublishSessionCompleted(ctx, ev)
		}()
	}
	return c.JSON(sess)
}

type durationReq struct {
	Hours float64 `json:"hours"`
}

func (h *TableHandler) Duration(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	var req durationReq
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, "body")
	}
	if err := h.Sessions.UpdateFixedDuration(id, req.Hours); err != nil {
		return fail(c, "session.duration", err)
	}
	applog.Audit(c, "session.duration", map[string]any{"table_id": id, "hours": req.Hours})
	return c.SendStatus(fiber.StatusNoContent)
}
