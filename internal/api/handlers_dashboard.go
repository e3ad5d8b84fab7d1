package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bloom/internal/services"
)

func (handler *Handler) Dashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	date, err := parseDateParam(c.Query("date"), handler.today())
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	snapshot, err := handler.cycles.LoadSnapshot(c.UserContext(), user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}

	return c.JSON(services.BuildDashboard(snapshot, date, handler.i18n, handler.currentLanguage(c), user.DiscreetMode))
}

func (handler *Handler) Calendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	today := handler.today()
	month, err := parseMonthParam(c.Query("month"), today)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}
	snapshot, err := handler.cycles.LoadSnapshot(c.UserContext(), user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}

	return c.JSON(fiber.Map{
		"month": month.String()[:7],
		"days":  services.BuildCalendarMonth(month, snapshot.Store, snapshot.Predictions, today),
	})
}

func (handler *Handler) Stats(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	snapshot, err := handler.cycles.LoadSnapshot(c.UserContext(), user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}
	return c.JSON(services.BuildCycleHistoryStats(snapshot.Store.Intervals()))
}
