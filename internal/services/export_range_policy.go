package services

import (
	"errors"
	"strings"

	"cloud.google.com/go/civil"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// ExportRange bounds an export inclusively. Nil bounds are open.
type ExportRange struct {
	From *civil.Date
	To   *civil.Date
}

func ParseExportRange(rawFrom string, rawTo string) (ExportRange, error) {
	var exportRange ExportRange
	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		from, err := ParseDateKey(fromRaw)
		if err != nil {
			return ExportRange{}, ErrExportFromDateInvalid
		}
		exportRange.From = &from
	}
	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		to, err := ParseDateKey(toRaw)
		if err != nil {
			return ExportRange{}, ErrExportToDateInvalid
		}
		exportRange.To = &to
	}

	if exportRange.From != nil && exportRange.To != nil && exportRange.To.Before(*exportRange.From) {
		return ExportRange{}, ErrExportRangeInvalid
	}
	return exportRange, nil
}

func (exportRange ExportRange) Contains(day civil.Date) bool {
	if exportRange.From != nil && day.Before(*exportRange.From) {
		return false
	}
	if exportRange.To != nil && day.After(*exportRange.To) {
		return false
	}
	return true
}
