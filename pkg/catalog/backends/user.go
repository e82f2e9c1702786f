package backends

import (
	"context"

	"github.com/Abraxas-365/ensamble/pkg/catalog"
	"github.com/Abraxas-365/ensamble/pkg/errx"
	"github.com/Abraxas-365/ensamble/pkg/lifex"
	"github.com/gofiber/fiber/v2"
)

// UserServiceName is the lifecycle name of the user backend.
const UserServiceName = "user-service"

// UserSpec describes the user backend for the lifecycle coordinator.
func UserSpec(addr string, users catalog.UserRepository) lifex.ServiceSpec {
	return lifex.ServiceSpec{
		Name: UserServiceName,
		Addr: addr,
		Start: func(ctx context.Context) (lifex.ServiceHandle, error) {
			return StartServer(UserServiceName, addr, func(app *fiber.App) {
				app.Get("/user", userHandler(users))
			})
		},
	}
}

func userHandler(users catalog.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Query("userId")
		if userID == "" {
			return errx.Validation("missing userId query parameter")
		}
		user, err := users.ByID(c.Context(), userID)
		if err != nil {
			return err
		}
		return c.JSON(user)
	}
}
