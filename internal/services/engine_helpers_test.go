package services

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/terraincognita07/bloom/internal/models"
)

func mustDate(t *testing.T, key string) civil.Date {
	t.Helper()
	day, err := ParseDateKey(key)
	if err != nil {
		t.Fatalf("ParseDateKey(%q) unexpected error: %v", key, err)
	}
	return day
}

func closedInterval(t *testing.T, id string, start string, end string) Interval {
	t.Helper()
	endDate := mustDate(t, end)
	return Interval{ID: id, Start: mustDate(t, start), End: &endDate}
}

func openInterval(t *testing.T, id string, start string) Interval {
	t.Helper()
	return Interval{ID: id, Start: mustDate(t, start)}
}

func cycleRecord(id string, start string, end string) models.Cycle {
	record := models.Cycle{ID: id, UserID: 1, StartDate: start}
	if end != "" {
		record.EndDate = &end
	}
	return record
}

func dateKeys(days []civil.Date) []string {
	keys := make([]string, 0, len(days))
	for _, day := range days {
		keys = append(keys, day.String())
	}
	return keys
}

func assertDateKeys(t *testing.T, got []civil.Date, want []string) {
	t.Helper()
	keys := dateKeys(got)
	if len(keys) != len(want) {
		t.Fatalf("expected %d dates %v, got %d %v", len(want), want, len(keys), keys)
	}
	for index := range want {
		if keys[index] != want[index] {
			t.Fatalf("date %d: expected %s, got %s (all: %v)", index, want[index], keys[index], keys)
		}
	}
}
