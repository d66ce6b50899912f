package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "poolhall/internal/log"
	"poolhall/internal/services"
	"poolhall/internal/validate"
)

type SessionHandler struct {
	Sessions *services.SessionService
	Reports  *services.ReportService
}

// recordFilter reads ?q= and ?window= shared by the ledger listings.
func recordFilter(c *fiber.Ctx) (services.RecordFilter, bool) {
	q, ok := validate.Q(c.Query("q"))
	if !ok {
		return services.RecordFilter{}, false
	}
	w, ok := validate.Window(c.Query("window"))
	if !ok {
		return services.RecordFilter{}, false
	}
	return services.RecordFilter{Search: q, Window: w}, true
}

func (h *SessionHandler) List(c *fiber.Ctx) error {
	f, ok := recordFilter(c)
	if !ok {
		return badRequest(c, "filter")
	}
	return c.JSON(h.Reports.Records(f))
}

func (h *SessionHandler) Void(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	if err := h.Sessions.VoidSession(id); err != nil {
		return fail(c, "session.void", err)
	}
	applog.Audit(c, "session.void", map[string]any{"session_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *SessionHandler) Edit(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "id")
	}
	var p services.SessionPatch
	if err := parseBody(c, &p); err != nil {
		return badRequest(c, "body")
	}
	sess, err := h.Sessions.EditSession(id, p)
	if err != nil {
		return fail(c, "session.edit", err)
	}
	applog.Audit(c, "session.edit", map[string]any{"session_id": id})
	return c.JSON(sess)
}
