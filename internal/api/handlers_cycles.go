package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bloom/internal/services"
)

type toggleInput struct {
	Date           string `json:"date"`
	Confirm        bool   `json:"confirm"`
	ExpectedAction string `json:"expected_action"`
}

type resetMonthInput struct {
	Month   string `json:"month"`
	Confirm bool   `json:"confirm"`
}

func cyclesPayload(snapshot *services.CycleSnapshot) fiber.Map {
	return fiber.Map{
		"cycles":      services.ExportCycles(snapshot.Store.Intervals(), services.ExportRange{}),
		"warnings":    snapshot.Store.Warnings(),
		"predictions": snapshot.Predictions,
	}
}

// answerConfirmer replays the client's answer to the prompt it was shown.
func answerConfirmer(confirmed bool) services.Confirmer {
	return services.ConfirmFunc(func(context.Context, services.Prompt) (bool, error) {
		return confirmed, nil
	})
}

func (handler *Handler) ListCycles(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	snapshot, err := handler.cycles.LoadSnapshot(c.UserContext(), user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}
	return c.JSON(cyclesPayload(snapshot))
}

func (handler *Handler) PreviewToggle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := toggleInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	day, err := services.ParseDateKey(input.Date)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	action, prompt, err := handler.cycles.PreviewToggle(c.UserContext(), user.ID, day, handler.currentLanguage(c))
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}
	return c.JSON(fiber.Map{"action": action, "prompt": prompt})
}

// Toggle applies the action for a day only when the request confirms it.
// Without confirmation the response carries the prompt to show.
func (handler *Handler) Toggle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := toggleInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	day, err := services.ParseDateKey(input.Date)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	result, err := handler.cycles.Toggle(c.UserContext(), user.ID, day, answerConfirmer(input.Confirm), services.ToggleOptions{
		Language:     handler.currentLanguage(c),
		ExpectedKind: services.ToggleKind(input.ExpectedAction),
	})
	switch {
	case errors.Is(err, services.ErrToggleStale):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":  "toggle action changed",
			"action": result.Action,
			"prompt": result.Prompt,
		})
	case errors.Is(err, services.ErrCycleMutationFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to update cycles")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}

	payload := cyclesPayload(result.Snapshot)
	payload["action"] = result.Action
	payload["prompt"] = result.Prompt
	payload["applied"] = result.Applied
	return c.JSON(payload)
}

func (handler *Handler) ResetMonth(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := resetMonthInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	month, err := services.ParseMonthKey(input.Month)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	result, err := handler.cycles.ResetMonth(c.UserContext(), user.ID, month, answerConfirmer(input.Confirm), handler.currentLanguage(c))
	switch {
	case errors.Is(err, services.ErrCycleMutationFailed):
		return apiError(c, fiber.StatusInternalServerError, "failed to update cycles")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}

	payload := fiber.Map{
		"prompt":  result.Prompt,
		"applied": result.Applied,
		"deleted": result.Deleted,
	}
	if result.Snapshot != nil {
		for key, value := range cyclesPayload(result.Snapshot) {
			payload[key] = value
		}
	}
	return c.JSON(payload)
}
