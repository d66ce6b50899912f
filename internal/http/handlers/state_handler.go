package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"poolhall/internal/domain"
	applog "poolhall/internal/log"
	"poolhall/internal/state"
)

// StateHandler exposes the whole aggregate for terminals that sync by
// snapshot.
type StateHandler struct {
	State *state.Store
}

func (h *StateHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.State.Snapshot())
}

// Replace overlays a posted snapshot with the same rules as a startup
// pull: missing collections keep their current value.
func (h *StateHandler) Replace(c *fiber.Ctx) error {
	var in domain.AggregateState
	if len(c.Body()) == 0 {
		return badRequest(c, "body")
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "body")
	}
	if err := h.State.Update(func(st *domain.AggregateState, _ time.Time) error {
		*st = state.Merge(*st, in)
		return nil
	}); err != nil {
		return fail(c, "state.replace", err)
	}
	applog.Audit(c, "state.replace", map[string]any{"tables": len(in.Tables), "sessions": len(in.Sessions), "updated": in.UpdatedAt})
	return c.JSON(h.State.Snapshot())
}
