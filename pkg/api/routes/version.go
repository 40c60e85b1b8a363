package routes

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

var Version = "dev"

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": Version,
	})
}

func Health(check func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if check != nil {
			if err := check(c.UserContext()); err != nil {
				c.Status(fiber.StatusServiceUnavailable)
				return c.JSON(fiber.Map{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
		}

		return c.JSON(fiber.Map{
			"status": "ok",
		})
	}
}
