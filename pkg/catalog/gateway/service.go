package gateway

import (
	"context"

	"github.com/Abraxas-365/ensamble/pkg/catalog/backends"
	"github.com/Abraxas-365/ensamble/pkg/errx"
	"github.com/Abraxas-365/ensamble/pkg/lifex"
	"github.com/Abraxas-365/ensamble/pkg/singlex"
	"github.com/gofiber/fiber/v2"
)

// ServiceName is the lifecycle name of the gateway.
const ServiceName = "gateway"

var gatewayErrors = errx.NewRegistry("GATEWAY")

var (
	errComposeTimeout = gatewayErrors.Register("COMPOSE_TIMEOUT", errx.TypeTimeout, 504, "Composition deadline exceeded")
	errUpstream       = gatewayErrors.Register("UPSTREAM", errx.TypeExternal, 502, "Upstream backend failed")
)

// Spec describes the gateway service for the lifecycle coordinator.
func Spec(addr string, composer *Composer) lifex.ServiceSpec {
	return lifex.ServiceSpec{
		Name: ServiceName,
		Addr: addr,
		Start: func(ctx context.Context) (lifex.ServiceHandle, error) {
			return backends.StartServer(ServiceName, addr, func(app *fiber.App) {
				app.Get("/recommendations/composed", composedHandler(composer))
			})
		},
	}
}

func composedHandler(composer *Composer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Query("userId")
		if userID == "" {
			return errx.Validation("missing userId query parameter")
		}

		full, err := composer.Composed(c.Context(), userID)
		if err != nil {
			return mapComposeError(err)
		}
		return c.JSON(full)
	}
}

// mapComposeError keeps the timeout outcome distinguishable from upstream
// failures: deadline → 504, anything else from the backends → 502.
func mapComposeError(err error) error {
	if singlex.IsTimeout(err) {
		return gatewayErrors.NewWithCause(errComposeTimeout, err)
	}
	var e *errx.Error
	if errx.As(err, &e) {
		return e
	}
	return gatewayErrors.NewWithCause(errUpstream, err)
}
