package api

import (
	"strings"

	"cloud.google.com/go/civil"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bloom/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// parseDateParam reads a YYYY-MM-DD value. Empty input yields fallback.
func parseDateParam(raw string, fallback civil.Date) (civil.Date, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return fallback, nil
	}
	return services.ParseDateKey(value)
}

func parseMonthParam(raw string, fallback civil.Date) (civil.Date, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		first, _ := services.MonthBounds(fallback)
		return first, nil
	}
	return services.ParseMonthKey(value)
}
