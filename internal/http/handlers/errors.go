package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "poolhall/internal/log"
	"poolhall/internal/services"
	"poolhall/internal/validate"
)

const friendlyError = "Something went wrong. Please try again."

// fail maps a service error to a status. Anything unexpected is logged and
// answered with a generic message so internals never reach the client.
func fail(c *fiber.Ctx, action string, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrInsufficientStock):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidInput):
		status = fiber.StatusBadRequest
	}
	if status == fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
		return c.Status(status).JSON(fiber.Map{"error": friendlyError})
	}
	applog.Warn(c, action+".reject", map[string]any{"reason": err.Error()})
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, field string) error {
	applog.Warn(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid " + field})
}

// ErrorHandler is the app-wide fiber error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": friendlyError})
}

func pathID(c *fiber.Ctx) (string, bool) {
	return validate.ID(c.Params("id"))
}

// parseBody decodes a JSON body; an empty body leaves v untouched.
func parseBody(c *fiber.Ctx, v any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return c.BodyParser(v)
}
