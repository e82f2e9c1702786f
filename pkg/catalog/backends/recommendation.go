package backends

import (
	"context"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/Abraxas-365/ensamble/pkg/errx"
	"github.com/Abraxas-365/ensamble/pkg/lifex"
	"github.com/gofiber/fiber/v2"
)

// RecommendationServiceName is the lifecycle name of the recommendation
// backend.
const RecommendationServiceName = "recommendation-service"

// RecommendationSpec describes the recommendation backend for the
// lifecycle coordinator.
func RecommendationSpec(addr string, src catalog.RecommendationSource) lifex.ServiceSpec {
	return lifex.ServiceSpec{
		Name: RecommendationServiceName,
		Addr: addr,
		Start: func(ctx context.Context) (lifex.ServiceHandle, error) {
			return StartServer(RecommendationServiceName, addr, func(app *fiber.App) {
				app.Get("/recommendations", recommendationHandler(src))
			})
		},
	}
}

func recommendationHandler(src catalog.RecommendationSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Query("userId")
		if userID == "" {
			return errx.Validation("missing userId query parameter")
		}
		recs, err := src.ForUser(c.Context(), userID)
		if err != nil {
			return err
		}
		return c.JSON(recs)
	}
}
