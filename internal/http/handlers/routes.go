package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "poolhall/internal/log"
)

// Mount registers the JSON API, health check and the 404 fallback.
func (d *Deps) Mount(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/tables", d.TableHandler.List)
	api.Post("/tables", d.TableHandler.Create)
	api.Patch("/tables/:id", d.TableHandler.Update)
	api.Delete("/tables/:id", d.TableHandler.Remove)
	api.Post("/tables/:id/start", d.TableHandler.Start)
	api.Post("/tables/:id/end", d.TableHandler.End)
	api.Post("/tables/:id/pay", d.TableHandler.Pay)
	api.Post("/tables/:id/duration", d.TableHandler.Duration)

	api.Get("/sessions", d.SessionHandler.List)
	api.Post("/sessions/:id/void", d.SessionHandler.Void)
	api.Patch("/sessions/:id", d.SessionHandler.Edit)

	api.Get("/categories", d.CategoryHandler.List)
	api.Post("/categories", d.CategoryHandler.Create)
	api.Put("/categories/:id", d.CategoryHandler.Update)
	api.Delete("/categories/:id", d.CategoryHandler.Delete)
	api.Put("/settings/rate", d.CategoryHandler.SetRate)

	availLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|avail"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Warn(c, "rate.availability.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/items", d.ItemHandler.List)
	api.Post("/items", d.ItemHandler.Create)
	api.Patch("/items/:id", d.ItemHandler.Update)
	api.Delete("/items/:id", d.ItemHandler.Remove)
	api.Get("/items/:id/availability", availLimiter, d.ItemHandler.Availability)

	api.Post("/sales", d.OrderHandler.Sale)
	api.Post("/checkout", d.OrderHandler.Checkout)
	api.Get("/orders", d.OrderHandler.List)
	api.Post("/orders", d.OrderHandler.Create)
	api.Put("/orders/:id", d.OrderHandler.Edit)
	api.Delete("/orders/:id", d.OrderHandler.Delete)
	api.Post("/orders/:id/void", d.OrderHandler.Void)

	api.Get("/reports/summary", d.ReportHandler.Summary)

	api.Get("/state", d.StateHandler.Get)
	api.Post("/state", d.StateHandler.Replace)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
}
