package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/lang/:lang", handler.SetLanguage)

	api := app.Group("/api")
	api.Post("/auth/register", handler.Register)
	api.Post("/auth/login", handler.Login)
	api.Get("/partner/:token", handler.PartnerView)

	protected := api.Group("", handler.AuthRequired)
	protected.Post("/auth/logout", handler.Logout)
	protected.Get("/auth/me", handler.Me)

	protected.Get("/cycles", handler.ListCycles)
	protected.Post("/cycles/toggle/preview", handler.PreviewToggle)
	protected.Post("/cycles/toggle", handler.Toggle)
	protected.Post("/cycles/reset-month", handler.ResetMonth)

	protected.Get("/dashboard", handler.Dashboard)
	protected.Get("/calendar", handler.Calendar)
	protected.Get("/stats", handler.Stats)

	protected.Get("/days/:date", handler.GetDay)
	protected.Post("/days/:date", handler.SaveDay)

	protected.Get("/export/csv", handler.ExportCSV)
	protected.Get("/export/json", handler.ExportJSON)
	protected.Get("/export/report", handler.ExportReport)

	protected.Get("/notifications", handler.ListNotifications)
	protected.Post("/notifications/read", handler.MarkNotificationsRead)

	protected.Get("/settings", handler.GetSettings)
	protected.Post("/settings/profile", handler.UpdateProfile)
	protected.Post("/settings/partner", handler.UpdatePartner)
	protected.Post("/settings/password", handler.ChangePassword)
	protected.Post("/settings/partner-token", handler.IssuePartnerToken)
	protected.Delete("/settings/partner-token", handler.RevokePartnerToken)
	protected.Post("/settings/clear-data", handler.ClearAllData)
	protected.Delete("/settings/delete-account", handler.DeleteAccount)
}
