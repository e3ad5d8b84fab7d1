package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bloom/internal/services"
)

// PartnerView is public: the token in the path is the credential.
func (handler *Handler) PartnerView(c *fiber.Ctx) error {
	view, err := handler.partners.ViewByToken(c.UserContext(), c.Params("token"), handler.today())
	switch {
	case errors.Is(err, services.ErrPartnerNotFound):
		return apiError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrPartnerNoHistory):
		return apiError(c, fiber.StatusNotFound, "no cycle history")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "failed to load partner view")
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(view)
}
