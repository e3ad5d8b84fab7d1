package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

const (
	reportRecentCycles = 10
	reportRecentLogs   = 30
)

var ExportCSVHeaders = []string{
	"Date",
	"Cycle Day",
	"Phase",
	"Mood",
	"Symptoms",
	"Basal Temp",
	"Cervical Mucus",
	"LH Test",
}

type ExportCycle struct {
	ID           string      `json:"id"`
	StartDate    civil.Date  `json:"start_date"`
	EndDate      *civil.Date `json:"end_date"`
	EffectiveEnd civil.Date  `json:"effective_end"`
	Length       int         `json:"length"`
}

type ExportLog struct {
	Date          civil.Date `json:"date"`
	Mood          string     `json:"mood"`
	Symptoms      []string   `json:"symptoms"`
	BasalTemp     *float64   `json:"basal_temp"`
	CervicalMucus string     `json:"cervical_mucus"`
	LHTest        string     `json:"lh_test"`
}

type ExportDocument struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Cycles      []ExportCycle `json:"cycles"`
	Logs        []ExportLog   `json:"logs"`
	Predictions PredictionSet `json:"predictions"`
	Warnings    []DataWarning `json:"warnings"`
}

type ExportService struct {
	translator Translator
}

func NewExportService(translator Translator) *ExportService {
	if translator == nil {
		translator = fallbackTranslator{}
	}
	return &ExportService{translator: translator}
}

// CSVRows covers every date in exportRange that has a log, a logged period
// day or a predicted period day, in ascending order.
func (service *ExportService) CSVRows(snapshot *CycleSnapshot, exportRange ExportRange) [][]string {
	dates := NewDateSet(snapshot.Store.LogDates())
	for _, day := range snapshot.Store.PeriodDates() {
		dates[day] = struct{}{}
	}
	for _, day := range snapshot.Predictions.PeriodDates {
		dates[day] = struct{}{}
	}

	sorted := make([]civil.Date, 0, len(dates))
	for day := range dates {
		if exportRange.Contains(day) {
			sorted = append(sorted, day)
		}
	}
	sortDates(sorted)

	intervals := snapshot.Store.Intervals()
	rows := make([][]string, 0, len(sorted))
	for _, day := range sorted {
		cycleDay := ""
		if number, ok := snapshot.Store.DayNumberOf(day); ok {
			cycleDay = strconv.Itoa(number)
		}
		phase := ""
		if info := ClassifyPhase(day, intervals); info.HasHistory {
			phase = string(info.Phase)
		}

		entry, _ := snapshot.Store.LogFor(day)
		basalTemp := ""
		if entry.BasalTemp != nil {
			basalTemp = strconv.FormatFloat(*entry.BasalTemp, 'f', -1, 64)
		}
		rows = append(rows, []string{
			day.String(),
			cycleDay,
			phase,
			entry.Mood,
			strings.Join(entry.Symptoms, "; "),
			basalTemp,
			entry.CervicalMucus,
			entry.LHTest,
		})
	}
	return rows
}

func (service *ExportService) WriteCSV(snapshot *CycleSnapshot, exportRange ExportRange) ([]byte, error) {
	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(ExportCSVHeaders); err != nil {
		return nil, err
	}
	for _, row := range service.CSVRows(snapshot, exportRange) {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return output.Bytes(), nil
}

// ExportCycles lists intervals starting inside exportRange with their
// effective end.
func ExportCycles(intervals []Interval, exportRange ExportRange) []ExportCycle {
	cycles := make([]ExportCycle, 0, len(intervals))
	for _, interval := range intervals {
		if !exportRange.Contains(interval.Start) {
			continue
		}
		cycles = append(cycles, ExportCycle{
			ID:           interval.ID,
			StartDate:    interval.Start,
			EndDate:      interval.End,
			EffectiveEnd: interval.EffectiveEnd(),
			Length:       interval.Length(),
		})
	}
	return cycles
}

// Document keeps cycles starting inside exportRange and logs dated inside
// it. Predictions are always included.
func (service *ExportService) Document(snapshot *CycleSnapshot, exportRange ExportRange, generatedAt time.Time) ExportDocument {
	cycles := ExportCycles(snapshot.Store.Intervals(), exportRange)

	logDates := snapshot.Store.LogDates()
	logs := make([]ExportLog, 0, len(logDates))
	for _, day := range logDates {
		if !exportRange.Contains(day) {
			continue
		}
		entry, _ := snapshot.Store.LogFor(day)
		symptoms := entry.Symptoms
		if symptoms == nil {
			symptoms = []string{}
		}
		logs = append(logs, ExportLog{
			Date:          day,
			Mood:          entry.Mood,
			Symptoms:      symptoms,
			BasalTemp:     entry.BasalTemp,
			CervicalMucus: entry.CervicalMucus,
			LHTest:        entry.LHTest,
		})
	}

	return ExportDocument{
		GeneratedAt: generatedAt,
		Cycles:      cycles,
		Logs:        logs,
		Predictions: snapshot.Predictions,
		Warnings:    snapshot.Store.Warnings(),
	}
}

// Report renders a plain-text summary of the most recent cycles and logs.
func (service *ExportService) Report(snapshot *CycleSnapshot, displayName string, language string, today civil.Date) string {
	var report strings.Builder
	fmt.Fprintf(&report, "%s\n", service.translator.Translate(language, "report.title"))
	if displayName != "" {
		fmt.Fprintf(&report, "%s\n", displayName)
	}
	fmt.Fprintf(&report, "%s\n\n", today)

	fmt.Fprintf(&report, "%s\n", service.translator.Translate(language, "report.recent_cycles"))
	intervals := snapshot.Store.Intervals()
	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Start.After(intervals[j].Start)
	})
	if len(intervals) > reportRecentCycles {
		intervals = intervals[:reportRecentCycles]
	}
	if len(intervals) == 0 {
		fmt.Fprintf(&report, "  %s\n", service.translator.Translate(language, "report.none"))
	}
	for index, interval := range intervals {
		fmt.Fprintf(&report, "  %d. %s .. %s (%d)\n", index+1, interval.Start, interval.EffectiveEnd(), interval.Length())
	}

	fmt.Fprintf(&report, "\n%s\n", service.translator.Translate(language, "report.daily_logs"))
	logDates := snapshot.Store.LogDates()
	recent := make([]civil.Date, 0, reportRecentLogs)
	for index := len(logDates) - 1; index >= 0 && len(recent) < reportRecentLogs; index-- {
		recent = append(recent, logDates[index])
	}
	if len(recent) == 0 {
		fmt.Fprintf(&report, "  %s\n", service.translator.Translate(language, "report.none"))
	}
	for _, day := range recent {
		entry, _ := snapshot.Store.LogFor(day)
		fmt.Fprintf(&report, "  %s: %s\n", day, valueOrDash(entry.Mood))
		if len(entry.Symptoms) > 0 {
			fmt.Fprintf(&report, "    %s\n", strings.Join(entry.Symptoms, ", "))
		}
		if entry.BasalTemp != nil || entry.CervicalMucus != "" || entry.LHTest != "" {
			temp := "--"
			if entry.BasalTemp != nil {
				temp = strconv.FormatFloat(*entry.BasalTemp, 'f', 2, 64) + "°C"
			}
			fmt.Fprintf(&report, "    %s, %s, LH %s\n", temp, valueOrDash(entry.CervicalMucus), valueOrDash(entry.LHTest))
		}
	}
	return report.String()
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "--"
	}
	return value
}
