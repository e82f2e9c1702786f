package backends

import (
	"context"
	"hash/fnv"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/Abraxas-365/ensamble/pkg/errx"
	"github.com/Abraxas-365/ensamble/pkg/lifex"
	"github.com/gofiber/fiber/v2"
)

// RatingServiceName is the lifecycle name of the rating backend.
const RatingServiceName = "rating-service"

// RatingSpec describes the rating backend for the lifecycle coordinator.
func RatingSpec(addr string, store catalog.RatingStore) lifex.ServiceSpec {
	return lifex.ServiceSpec{
		Name: RatingServiceName,
		Addr: addr,
		Start: func(ctx context.Context) (lifex.ServiceHandle, error) {
			return StartServer(RatingServiceName, addr, func(app *fiber.App) {
				app.Get("/rating", ratingHandler(store))
			})
		},
	}
}

// ratingHandler reads the cached rating, synthesizing and caching one on a
// miss so every entity has a stable rating across requests.
func ratingHandler(store catalog.RatingStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityID := c.Query("entityId")
		if entityID == "" {
			return errx.Validation("missing entityId query parameter")
		}

		rating, err := store.ByEntity(c.Context(), entityID)
		if err != nil {
			var e *errx.Error
			if !errx.As(err, &e) || e.Type != errx.TypeNotFound {
				return err
			}
			rating = synthesizeRating(entityID)
			if err := store.Put(c.Context(), rating); err != nil {
				return err
			}
		}
		return c.JSON(rating)
	}
}

// synthesizeRating derives a stable 1..5 rating from the entity id.
func synthesizeRating(entityID string) catalog.Rating {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return catalog.Rating{
		EntityID: entityID,
		Rating:   int(h.Sum32()%5) + 1,
	}
}
