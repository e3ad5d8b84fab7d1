package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/bloom/internal/services"
)

func (handler *Handler) loadExport(c *fiber.Ctx) (*services.CycleSnapshot, services.ExportRange, error) {
	user, ok := currentUser(c)
	if !ok {
		return nil, services.ExportRange{}, apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	exportRange, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	switch {
	case errors.Is(err, services.ErrExportFromDateInvalid):
		return nil, exportRange, apiError(c, fiber.StatusBadRequest, "invalid from date")
	case errors.Is(err, services.ErrExportToDateInvalid):
		return nil, exportRange, apiError(c, fiber.StatusBadRequest, "invalid to date")
	case errors.Is(err, services.ErrExportRangeInvalid):
		return nil, exportRange, apiError(c, fiber.StatusBadRequest, "invalid range")
	}

	snapshot, err := handler.cycles.LoadSnapshot(c.UserContext(), user.ID)
	if err != nil {
		return nil, exportRange, apiError(c, fiber.StatusInternalServerError, "failed to load cycles")
	}
	return snapshot, exportRange, nil
}

func (handler *Handler) exportFilename(extension string) string {
	return fmt.Sprintf("bloom-export-%s.%s", handler.today().String(), extension)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	snapshot, exportRange, err := handler.loadExport(c)
	if snapshot == nil {
		return err
	}

	payload, err := handler.exports.WriteCSV(snapshot, exportRange)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", handler.exportFilename("csv")))
	return c.Send(payload)
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	snapshot, exportRange, err := handler.loadExport(c)
	if snapshot == nil {
		return err
	}

	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", handler.exportFilename("json")))
	return c.JSON(handler.exports.Document(snapshot, exportRange, handler.now().UTC()))
}

func (handler *Handler) ExportReport(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	snapshot, _, err := handler.loadExport(c)
	if snapshot == nil {
		return err
	}

	report := handler.exports.Report(snapshot, user.DisplayName, handler.currentLanguage(c), handler.today())
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(report)
}
