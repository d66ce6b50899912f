package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	LogFile string

	// StateBackend is one of sqlite, file or redis.
	StateBackend  string
	DBDSN         string
	StateFile     string
	StateKey      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SyncDebounce time.Duration
	SyncQuiet    time.Duration

	RabbitMQURL string
	Location    *time.Location
}

func Load() Config {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	cfg := Config{
		Port:          env("PORT", "8080"),
		LogFile:       env("LOG_FILE", "./poolhall.log"),
		StateBackend:  strings.ToLower(env("STATE_BACKEND", "sqlite")),
		DBDSN:         env("DB_DSN", "poolhall.db"),
		StateFile:     env("STATE_FILE", "./data/state.json"),
		StateKey:      env("STATE_KEY", "pool-hall-pos:state"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),
		SyncDebounce:  envDuration("SYNC_DEBOUNCE", 500*time.Millisecond),
		SyncQuiet:     envDuration("SYNC_QUIET", 300*time.Millisecond),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		Location:      time.Local,
	}
	switch cfg.StateBackend {
	case "sqlite", "file", "redis":
	default:
		log.Printf("[config] unknown STATE_BACKEND=%q, using sqlite", cfg.StateBackend)
		cfg.StateBackend = "sqlite"
	}
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			cfg.Location = loc
		} else {
			log.Printf("[config] bad TIMEZONE=%q: %v", tz, err)
		}
	}

	log.Printf("[config] PORT=%s STATE_BACKEND=%s DB_DSN=%s STATE_FILE=%s REDIS_ADDR=%s STATE_KEY=%s SYNC_DEBOUNCE=%s SYNC_QUIET=%s RABBITMQ=%t TIMEZONE=%s LOG_FILE=%s",
		cfg.Port, cfg.StateBackend, cfg.DBDSN, cfg.StateFile, cfg.RedisAddr, cfg.StateKey,
		cfg.SyncDebounce, cfg.SyncQuiet, cfg.RabbitMQURL != "", cfg.Location, cfg.LogFile)
	return cfg
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] bad %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

// envDuration accepts Go durations ("750ms") or a bare number of milliseconds.
func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] bad %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
