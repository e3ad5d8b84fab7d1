package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bloom/internal/models"
	"github.com/terraincognita07/bloom/internal/services"
)

type partnerEmailInput struct {
	PartnerEmail string `json:"partner_email"`
}

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{
		"user":      newUserResponse(user),
		"languages": handler.i18n.SupportedLanguages(),
		"labels": fiber.Map{
			"moods":          models.DefaultMoodLabels(),
			"symptoms":       models.DefaultSymptomLabels(),
			"cervical_mucus": models.CervicalMucusLabels(),
			"lh_test":        models.LHTestLabels(),
		},
	})
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := services.ProfileUpdate{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	updated, err := handler.settings.UpdateProfile(c.UserContext(), user.ID, input)
	switch {
	case errors.Is(err, services.ErrSettingsDisplayNameTooLong):
		return apiError(c, fiber.StatusBadRequest, "display name too long")
	case errors.Is(err, services.ErrSettingsLanguageInvalid):
		return apiError(c, fiber.StatusBadRequest, "unsupported language")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "failed to update settings")
	}

	if input.Language != nil {
		handler.setLanguageCookie(c, updated.Language)
	}
	return c.JSON(newUserResponse(&updated))
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := services.PasswordChange{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	err := handler.settings.ChangePassword(c.UserContext(), *user, input)
	switch {
	case errors.Is(err, services.ErrAuthInputInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	case errors.Is(err, services.ErrAuthPasswordMismatch):
		return apiError(c, fiber.StatusBadRequest, "password mismatch")
	case errors.Is(err, services.ErrSettingsPasswordInvalid):
		return apiError(c, fiber.StatusUnauthorized, "invalid current password")
	case errors.Is(err, services.ErrSettingsPasswordUnchanged):
		return apiError(c, fiber.StatusBadRequest, "new password must differ")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "failed to update password")
	}

	user.MustChangePassword = false
	if err := handler.setAuthCookie(c, user, false); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (handler *Handler) UpdatePartner(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := partnerEmailInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	email, err := handler.partners.UpdatePartnerEmail(c.UserContext(), user.ID, input.PartnerEmail)
	switch {
	case errors.Is(err, services.ErrInvalidPartnerEmail):
		return apiError(c, fiber.StatusBadRequest, "invalid partner email")
	case err != nil:
		return apiError(c, fiber.StatusInternalServerError, "failed to update settings")
	}
	return c.JSON(fiber.Map{"partner_email": email})
}

func (handler *Handler) IssuePartnerToken(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	token, err := handler.partners.IssueToken(c.UserContext(), user.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to issue partner link")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"path":  "/api/partner/" + token,
	})
}

func (handler *Handler) RevokePartnerToken(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	if err := handler.partners.RevokeToken(c.UserContext(), user.ID); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to revoke partner link")
	}
	return c.JSON(fiber.Map{"ok": true})
}
