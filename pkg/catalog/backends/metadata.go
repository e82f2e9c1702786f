package backends

import (
	"context"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/Abraxas-365/ensamble/pkg/errx"
	"github.com/Abraxas-365/ensamble/pkg/lifex"
	"github.com/gofiber/fiber/v2"
)

// MetadataServiceName is the lifecycle name of the metadata backend.
const MetadataServiceName = "metadata-service"

// MetadataSpec describes the metadata backend for the lifecycle
// coordinator.
func MetadataSpec(addr string, repo catalog.MetadataRepository) lifex.ServiceSpec {
	return lifex.ServiceSpec{
		Name: MetadataServiceName,
		Addr: addr,
		Start: func(ctx context.Context) (lifex.ServiceHandle, error) {
			return StartServer(MetadataServiceName, addr, func(app *fiber.App) {
				app.Get("/metadata", metadataHandler(repo))
			})
		},
	}
}

func metadataHandler(repo catalog.MetadataRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entityID := c.Query("entityId")
		if entityID == "" {
			return errx.Validation("missing entityId query parameter")
		}
		meta, err := repo.ByEntity(c.Context(), entityID)
		if err != nil {
			return err
		}
		return c.JSON(meta)
	}
}
