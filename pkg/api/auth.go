package api

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/steeple/steeple/pkg/api/routes"
)

type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// EnsureValidToken is a middleware that checks the Firebase ID token in the
// Authorization header and stores the signed in user's ID on the request.
func EnsureValidToken(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)

		if authHeader == "" {
			c.Status(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		idToken, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || idToken == "" {
			c.Status(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Authorization header must be a bearer token",
			})
		}

		token, err := verifier.VerifyIDToken(c.UserContext(), idToken)
		if err != nil {
			c.Status(fiber.StatusUnauthorized)
			return c.JSON(fiber.Map{
				"error": "Invalid auth token",
			})
		}

		c.Locals(routes.AccountUserIDKey, token.UID)

		return c.Next()
	}
}
