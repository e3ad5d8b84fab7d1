package services

import (
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/bloom/internal/models"
)

func exportSnapshot() *CycleSnapshot {
	temp := 36.55
	return BuildCycleSnapshot(
		[]models.Cycle{
			cycleRecord("a", "2024-01-01", "2024-01-04"),
			cycleRecord("b", "2024-01-29", "2024-02-01"),
		},
		[]models.DailyLog{
			{UserID: 1, Date: "2024-01-02", Mood: "Calm", Symptoms: []string{"Cramps", "Bloating"}, BasalTemp: &temp},
			{UserID: 1, Date: "2024-01-15", Mood: "Happy", LHTest: "Positive"},
		},
	)
}

func TestExportServiceCSVRows(t *testing.T) {
	service := NewExportService(nil)
	rows := service.CSVRows(exportSnapshot(), ExportRange{})

	if len(rows) != 33 {
		t.Fatalf("expected 8 period days, 1 log day and 24 predicted days, got %d rows", len(rows))
	}

	byDate := make(map[string][]string, len(rows))
	for index, row := range rows {
		if index > 0 && row[0] <= rows[index-1][0] {
			t.Fatalf("expected ascending unique dates, got %s after %s", row[0], rows[index-1][0])
		}
		byDate[row[0]] = row
	}

	want := map[string][]string{
		"2024-01-02": {"2024-01-02", "2", "Menstrual", "Calm", "Cramps; Bloating", "36.55", "", ""},
		"2024-01-15": {"2024-01-15", "", "Ovulation", "Happy", "", "", "", "Positive"},
		"2024-02-26": {"2024-02-26", "", "Luteal", "", "", "", "", ""},
	}
	for date, expected := range want {
		got, ok := byDate[date]
		if !ok {
			t.Fatalf("expected a row for %s", date)
		}
		if strings.Join(got, "|") != strings.Join(expected, "|") {
			t.Fatalf("row %s: expected %v, got %v", date, expected, got)
		}
	}
}

func TestExportServiceWriteCSVStartsWithHeader(t *testing.T) {
	service := NewExportService(nil)
	payload, err := service.WriteCSV(exportSnapshot(), ExportRange{})
	if err != nil {
		t.Fatalf("WriteCSV() unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	if lines[0] != "Date,Cycle Day,Phase,Mood,Symptoms,Basal Temp,Cervical Mucus,LH Test" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines) != 34 {
		t.Fatalf("expected header plus 33 rows, got %d lines", len(lines))
	}
}

func TestExportServiceCSVRowsWithoutHistory(t *testing.T) {
	service := NewExportService(nil)
	rows := service.CSVRows(BuildCycleSnapshot(nil, []models.DailyLog{{UserID: 1, Date: "2024-03-01", Mood: "Sad"}}), ExportRange{})

	if len(rows) != 1 {
		t.Fatalf("expected one log row, got %d", len(rows))
	}
	if rows[0][2] != "" {
		t.Fatalf("expected empty phase without history, got %q", rows[0][2])
	}
}

func TestExportServiceDocument(t *testing.T) {
	service := NewExportService(nil)
	generatedAt := time.Date(2024, time.February, 10, 9, 0, 0, 0, time.UTC)
	snapshot := BuildCycleSnapshot(
		[]models.Cycle{
			cycleRecord("a", "2024-01-01", "2024-01-04"),
			cycleRecord("open", "2024-01-29", ""),
			cycleRecord("broken", "2024-13-01", ""),
		},
		[]models.DailyLog{{UserID: 1, Date: "2024-01-02", Mood: "Calm"}},
	)

	document := service.Document(snapshot, ExportRange{}, generatedAt)
	if !document.GeneratedAt.Equal(generatedAt) {
		t.Fatalf("unexpected generation time %s", document.GeneratedAt)
	}
	if len(document.Cycles) != 2 {
		t.Fatalf("expected 2 valid cycles, got %+v", document.Cycles)
	}
	open := document.Cycles[1]
	if open.EndDate != nil || open.EffectiveEnd.String() != "2024-02-01" || open.Length != DefaultCycleSpanDays {
		t.Fatalf("expected open cycle to use the default span, got %+v", open)
	}
	if len(document.Logs) != 1 || document.Logs[0].Symptoms == nil {
		t.Fatalf("expected one log with non-nil symptoms, got %+v", document.Logs)
	}
	if len(document.Warnings) != 1 || document.Warnings[0].CycleID != "broken" {
		t.Fatalf("expected warning for the broken record, got %+v", document.Warnings)
	}
	if len(document.Predictions.PeriodDates) != PredictedCycleCount*PredictedPeriodDays {
		t.Fatalf("expected full prediction set, got %d dates", len(document.Predictions.PeriodDates))
	}
}

func TestExportServiceReport(t *testing.T) {
	service := NewExportService(mapTranslator{
		"report.title":         "Cycle report",
		"report.recent_cycles": "Recent cycles",
		"report.daily_logs":    "Daily logs",
	})

	report := service.Report(exportSnapshot(), "Ana", "en", mustDate(t, "2024-02-10"))
	for _, fragment := range []string{
		"Cycle report\nAna\n2024-02-10\n",
		"  1. 2024-01-29 .. 2024-02-01 (4)\n  2. 2024-01-01 .. 2024-01-04 (4)\n",
		"  2024-01-15: Happy\n    --, --, LH Positive\n  2024-01-02: Calm\n    Cramps, Bloating\n    36.55°C, --, LH --\n",
	} {
		if !strings.Contains(report, fragment) {
			t.Fatalf("expected report to contain %q, got:\n%s", fragment, report)
		}
	}
}

func TestExportServiceReportEmpty(t *testing.T) {
	service := NewExportService(mapTranslator{"report.none": "Nothing yet"})
	report := service.Report(BuildCycleSnapshot(nil, nil), "", "en", mustDate(t, "2024-02-10"))
	if strings.Count(report, "  Nothing yet\n") != 2 {
		t.Fatalf("expected empty markers for cycles and logs, got:\n%s", report)
	}
}

func TestExportServiceHonoursRange(t *testing.T) {
	service := NewExportService(nil)
	exportRange, err := ParseExportRange("2024-01-03", "2024-01-29")
	if err != nil {
		t.Fatalf("ParseExportRange() unexpected error: %v", err)
	}

	rows := service.CSVRows(exportSnapshot(), exportRange)
	got := make([]string, 0, len(rows))
	for _, row := range rows {
		got = append(got, row[0])
	}
	want := []string{"2024-01-03", "2024-01-04", "2024-01-15", "2024-01-29"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}

	document := service.Document(exportSnapshot(), exportRange, time.Now())
	if len(document.Cycles) != 1 || document.Cycles[0].ID != "b" {
		t.Fatalf("expected only the cycle starting in range, got %+v", document.Cycles)
	}
	if len(document.Logs) != 1 || document.Logs[0].Date.String() != "2024-01-15" {
		t.Fatalf("expected only the log in range, got %+v", document.Logs)
	}
}
