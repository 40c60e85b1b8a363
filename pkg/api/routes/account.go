package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/steeple/steeple/pkg/tokens"
)

// AccountUserIDKey is the request local holding the authenticated user's ID.
const AccountUserIDKey = "account_userid"

type notificationTokenRequest struct {
	Token string `json:"token"`
}

func AccountRouter(router fiber.Router, store tokens.Store) {
	router.Post("/notificationtoken", func(c *fiber.Ctx) error {
		return postNotificationToken(c, store)
	})
	router.Delete("/notificationtoken", func(c *fiber.Ctx) error {
		return deleteNotificationToken(c, store)
	})
}

func postNotificationToken(c *fiber.Ctx, store tokens.Store) error {
	userID, token, err := parseNotificationTokenRequest(c)
	if err != nil {
		return err
	}

	if err := store.AddToken(c.UserContext(), userID, token); err != nil {
		log.Error().Err(err).Str("user", userID).Msg("Failed to register notification token")

		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to register token",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

func deleteNotificationToken(c *fiber.Ctx, store tokens.Store) error {
	userID, token, err := parseNotificationTokenRequest(c)
	if err != nil {
		return err
	}

	if err := store.RemoveTokens(c.UserContext(), userID, []string{token}); err != nil {
		log.Error().Err(err).Str("user", userID).Msg("Failed to remove notification token")

		c.Status(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Failed to remove token",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}

func parseNotificationTokenRequest(c *fiber.Ctx) (string, string, error) {
	userID, _ := c.Locals(AccountUserIDKey).(string)
	if userID == "" {
		return "", "", fiber.NewError(fiber.StatusUnauthorized, "No user id set")
	}

	var request notificationTokenRequest
	if err := c.BodyParser(&request); err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if request.Token == "" {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "No token set")
	}

	return userID, request.Token, nil
}
