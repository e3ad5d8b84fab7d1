package api

import (
	"github.com/gofiber/fiber/v2"
)

const notificationFeedLimit = 50

func (handler *Handler) ListNotifications(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	items, err := handler.notifications.List(c.UserContext(), user.ID, notificationFeedLimit)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load notifications")
	}

	unread := 0
	for _, item := range items {
		if item.Unread {
			unread++
		}
	}
	return c.JSON(fiber.Map{"items": items, "unread": unread})
}

func (handler *Handler) MarkNotificationsRead(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.notifications.MarkAllRead(c.UserContext(), user.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to update notifications")
	}
	return c.JSON(fiber.Map{"ok": true})
}
