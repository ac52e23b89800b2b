package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/withyou-admin/internal/persistence"
)

func newHealthApp() *fiber.App {
	app := fiber.New()
	h := NewHealthHandler("withyou-admin", "test", &persistence.Postgres{}, &persistence.Redis{})
	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)
	return app
}

func TestLiveIgnoresDependencies(t *testing.T) {
	app := newHealthApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/health/live", nil))
	if err != nil {
		t.Fatalf("live probe: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("live status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode live body: %v", err)
	}
	if body.Status != "alive" || body.Service != "withyou-admin" {
		t.Errorf("live body = %+v, want status alive for withyou-admin", body)
	}
}

func TestReadyFailsWithoutDocumentStore(t *testing.T) {
	app := newHealthApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil))
	if err != nil {
		t.Fatalf("ready probe: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("ready status = %d, want %d", resp.StatusCode, fiber.StatusServiceUnavailable)
	}
	var body struct {
		Error struct {
			Code    string            `json:"code"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode ready body: %v", err)
	}
	if body.Error.Code != "DEPENDENCY_UNAVAILABLE" {
		t.Errorf("code = %s, want DEPENDENCY_UNAVAILABLE", body.Error.Code)
	}
	if body.Error.Details["postgres"] == "ok" || body.Error.Details["postgres"] == "" {
		t.Errorf("postgres detail = %q, want an error message", body.Error.Details["postgres"])
	}
	if body.Error.Details["redis"] != "disabled" {
		t.Errorf("redis detail = %q, want disabled when unconfigured", body.Error.Details["redis"])
	}
}
