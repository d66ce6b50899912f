package handlers_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// burst hits on the availability check return 429
func TestAvailabilityRateLimit(t *testing.T) {
	env := newTestApp(t)
	for i := 0; i < 16; i++ {
		resp, err := env.app.Test(httptest.NewRequest("GET", "/api/v1/items/item-1/availability", nil))
		if err != nil {
			t.Fatal(err)
		}
		if i < 15 && resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("hit rate limit too early at %d", i)
		}
		if i == 15 && resp.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected 429 after limit, got %d", resp.StatusCode)
		}
	}
}

// oversized POST rejected with 413
func TestBodySizeLimit(t *testing.T) {
	env := newTestApp(t)

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest("POST", "/api/v1/state", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req)
	// Fiber returns an error instead of a response when body too large; treat that as pass
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 413 for oversize, got %d body=%s", resp.StatusCode, string(body))
	}
}
