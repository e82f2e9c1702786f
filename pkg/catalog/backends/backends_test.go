package backends

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/Abraxas-365/ensamble/pkg/catalog/cataloginfra"
	"github.com/gofiber/fiber/v2"
)

func TestRatingHandler_SynthesizesAndCaches(t *testing.T) {
	store := cataloginfra.NewMemoryRatingStore()
	app := newApp("rating-test")
	app.Get("/rating", ratingHandler(store))

	get := func() catalog.Rating {
		t.Helper()
		resp, err := app.Test(httptest.NewRequest("GET", "/rating?entityId=e1", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var r catalog.Rating
		if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		return r
	}

	first := get()
	if first.Rating < 1 || first.Rating > 5 {
		t.Fatalf("synthesized rating out of range: %+v", first)
	}

	// The synthesized rating is cached, so a second read matches.
	if second := get(); second != first {
		t.Fatalf("rating not stable across requests: %+v vs %+v", first, second)
	}
	if cached, err := store.ByEntity(context.Background(), "e1"); err != nil || cached != first {
		t.Fatalf("rating was not cached: (%+v, %v)", cached, err)
	}
}

func TestHandlers_MissingQueryParam(t *testing.T) {
	app := newApp("validation-test")
	app.Get("/rating", ratingHandler(cataloginfra.NewMemoryRatingStore()))
	app.Get("/metadata", metadataHandler(cataloginfra.NewMemoryMetadataRepository()))
	app.Get("/user", userHandler(cataloginfra.NewMemoryUserRepository()))

	for _, path := range []string{"/rating", "/metadata", "/user"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("%s: request failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, resp.StatusCode)
		}
	}
}

func TestServer_CloseIsIdempotent(t *testing.T) {
	srv, err := StartServer("close-test", "127.0.0.1:0", func(app *fiber.App) {
		app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := srv.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := srv.Close(); err != nil {
		t.Fatalf("second close must return the first result, got %v", err)
	}

	select {
	case <-srv.Termination().Done():
	case <-time.After(2 * time.Second):
		t.Fatal("termination signal never resolved")
	}
}

func TestStartServer_BindFailureIsSynchronous(t *testing.T) {
	first, err := StartServer("bind-a", "127.0.0.1:0", func(app *fiber.App) {})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer first.Close()

	if _, err := StartServer("bind-b", first.Addr(), func(app *fiber.App) {}); err == nil {
		t.Fatal("expected an immediate error when the address is taken")
	}
}
