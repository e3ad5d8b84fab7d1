package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bloom/internal/models"
)

const (
	authCookieName     = "bloom_auth"
	languageCookieName = "bloom_lang"
	contextUserKey     = "current_user"
	contextLanguageKey = "current_language"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

// currentLanguage prefers an explicit language cookie, then the user's
// saved language, then what LanguageMiddleware detected.
func (handler *Handler) currentLanguage(c *fiber.Ctx) string {
	if cookieLanguage := c.Cookies(languageCookieName); cookieLanguage != "" {
		return handler.i18n.NormalizeLanguage(cookieLanguage)
	}
	if user, ok := currentUser(c); ok && user.Language != "" {
		return handler.i18n.NormalizeLanguage(user.Language)
	}
	if language, ok := c.Locals(contextLanguageKey).(string); ok && language != "" {
		return language
	}
	return handler.i18n.DefaultLanguage()
}
