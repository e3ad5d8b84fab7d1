package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	DateKeyLayout = "2006-01-02"
	// DefaultCycleSpanDays is added to the start of a cycle without an
	// explicit end date.
	DefaultCycleSpanDays = 4
)

var ErrInvalidDateKey = errors.New("invalid date key")

// ToLocalDateKey formats t using its own calendar fields, so a value near
// midnight never shifts to the neighbouring UTC day.
func ToLocalDateKey(value time.Time) string {
	return civil.DateOf(value).String()
}

func ParseDateKey(key string) (civil.Date, error) {
	trimmed := strings.TrimSpace(key)
	if len(trimmed) != len(DateKeyLayout) {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	day, err := civil.ParseDate(trimmed)
	if err != nil || !day.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return day, nil
}

func AddDaysToKey(key string, n int) (string, error) {
	day, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return day.AddDays(n).String(), nil
}

// InclusiveDayCount counts calendar days from start to end, both included.
func InclusiveDayCount(start civil.Date, end civil.Date) int {
	return end.DaysSince(start) + 1
}

func TodayAt(now time.Time, location *time.Location) civil.Date {
	if location == nil {
		location = time.UTC
	}
	return civil.DateOf(now.In(location))
}

func MonthBounds(month civil.Date) (civil.Date, civil.Date) {
	first := civil.Date{Year: month.Year, Month: month.Month, Day: 1}
	next := first.In(time.UTC).AddDate(0, 1, 0)
	return first, civil.DateOf(next).AddDays(-1)
}

func ParseMonthKey(raw string) (civil.Date, error) {
	parsed, err := time.Parse("2006-01", strings.TrimSpace(raw))
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, raw)
	}
	return civil.Date{Year: parsed.Year(), Month: parsed.Month(), Day: 1}, nil
}

func dateBetween(day civil.Date, start civil.Date, end civil.Date) bool {
	return !day.Before(start) && !day.After(end)
}
