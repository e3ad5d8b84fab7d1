package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bloom/internal/services"
)

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := services.ParseDateKey(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	entry, err := handler.days.Fetch(c.UserContext(), user.ID, day)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load day")
	}
	return c.JSON(entry)
}

// SaveDay replaces the whole entry for a day. Logging never touches the
// cycle ranges.
func (handler *Handler) SaveDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day, err := services.ParseDateKey(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	input := services.DayLogInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	entry, err := handler.days.Save(c.UserContext(), user.ID, day, input)
	switch {
	case errors.Is(err, services.ErrDayLogInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid day log")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "failed to save day")
	}
	return c.JSON(entry)
}
