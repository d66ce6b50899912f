package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"poolhall/internal/config"
	"poolhall/internal/http/handlers"
	"poolhall/internal/queue"
	"poolhall/internal/state"
)

type testEnv struct {
	app *fiber.App
	st  *state.Store

	mu  sync.Mutex
	now time.Time
}

func (e *testEnv) advance(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = e.now.Add(d)
}

// newTestApp wires the real routes over the seeded floor: four tables,
// three price categories, six retail items.
func newTestApp(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{now: time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)}
	env.st = state.New(state.Default(env.now))
	env.st.SetClock(func() time.Time {
		env.mu.Lock()
		defer env.mu.Unlock()
		return env.now
	})

	cfg := config.Config{Location: time.UTC}
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Server().MaxRequestBodySize = 1 << 20
	app.Use(requestid.New())

	deps := handlers.NewDeps(env.st, cfg, queue.NewPublisher(""))
	deps.Mount(app)
	env.app = app
	return env
}

// call sends a JSON request and decodes the response into out when given.
func (e *testEnv) call(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode
}
