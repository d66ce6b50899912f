package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"poolhall/internal/config"
	"poolhall/internal/http/handlers"
	applog "poolhall/internal/log"
	"poolhall/internal/queue"
	"poolhall/internal/repos"
	"poolhall/internal/state"
	"poolhall/internal/syncer"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBackend()

	// The floor starts from the seed and is overlaid by whatever the
	// backend holds before the first request is served.
	st := state.New(state.Default(time.Now()))
	mirror := syncer.New(backend, st, syncer.Config{Debounce: cfg.SyncDebounce, Quiet: cfg.SyncQuiet})
	mirror.Start()
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mirror.Pull(loadCtx); err != nil {
		log.Printf("[warn] starting from seed data: %v", err)
	}
	cancelLoad()

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Warn(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	deps := handlers.NewDeps(st, cfg, queue.NewPublisher(cfg.RabbitMQURL))
	deps.Mount(app)

	errCh := make(chan error, 1)
	go func() { errCh <- app.Listen(":" + cfg.Port) }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		log.Printf("[error] server: %v", err)
	case sig := <-quit:
		log.Printf("[shutdown] %s received", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("[warn] http shutdown: %v", err)
	}
	if err := mirror.Close(ctx); err != nil {
		log.Printf("[warn] final push failed: %v", err)
	}
	log.Printf("[shutdown] done")
}

// openBackend picks the durable store named by STATE_BACKEND.
func openBackend(cfg config.Config) (syncer.Store, func(), error) {
	switch cfg.StateBackend {
	case "file":
		return repos.NewFileStore(cfg.StateFile), func() {}, nil
	case "redis":
		client, err := repos.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		rs := repos.NewRedisStore(client, cfg.StateKey)
		return rs, func() { _ = rs.Close() }, nil
	default:
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		return repos.NewStateRepo(db, cfg.StateKey), func() { _ = db.Close() }, nil
	}
}
