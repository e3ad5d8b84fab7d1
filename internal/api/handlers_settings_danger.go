package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bloom/internal/services"
)

type clearDataInput struct {
	Confirm bool `json:"confirm"`
}

type deleteAccountInput struct {
	Password string `json:"password"`
}

func (handler *Handler) ClearAllData(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := clearDataInput{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid input")
		}
	}

	result, err := handler.cycles.ClearAllData(c.UserContext(), user.ID, answerConfirmer(input.Confirm), handler.currentLanguage(c))
	switch {
	case errors.Is(err, services.ErrCycleMutationFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to clear data")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}

	payload := fiber.Map{
		"prompt":         result.Prompt,
		"applied":        result.Applied,
		"cycles_deleted": result.CyclesDeleted,
		"logs_deleted":   result.LogsDeleted,
	}
	if result.Snapshot != nil {
		for key, value := range cyclesPayload(result.Snapshot) {
			payload[key] = value
		}
	}
	return c.JSON(payload)
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := deleteAccountInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	err := handler.settings.DeleteAccount(c.UserContext(), *user, input.Password)
	switch {
	case errors.Is(err, services.ErrAuthInputInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid password")
	case errors.Is(err, services.ErrSettingsPasswordInvalid):
		return apiError(c, fiber.StatusUnauthorized, "invalid password")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "failed to delete account")
	}

	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"ok": true})
}
