package services

import (
	"cloud.google.com/go/civil"
	"github.com/terraincognita07/bloom/internal/models"
)

// PhaseTips is the self-care guidance shown for the current phase.
type PhaseTips struct {
	Nutrition string `json:"nutrition"`
	Exercise  string `json:"exercise"`
	Insight   string `json:"insight"`
}

func phaseTipKey(phase Phase, kind string) string {
	return "dashboard.tip." + string(phase) + "." + kind
}

// BuildPhaseTips renders the tips for phase, masked when discreet is set.
func BuildPhaseTips(phase Phase, translator Translator, language string, discreet bool) PhaseTips {
	if translator == nil {
		translator = fallbackTranslator{}
	}
	text := func(kind string) string {
		return MaskSensitiveText(translator.Translate(language, phaseTipKey(phase, kind)), discreet)
	}
	return PhaseTips{
		Nutrition: text("nutrition"),
		Exercise:  text("exercise"),
		Insight:   text("insight"),
	}
}

type DashboardView struct {
	Date                civil.Date       `json:"date"`
	Phase               Phase            `json:"phase"`
	PhaseLabel          string           `json:"phase_label"`
	CycleDay            int              `json:"cycle_day"`
	HasHistory          bool             `json:"has_history"`
	OnPeriod            bool             `json:"on_period"`
	NextPeriodStart     *civil.Date      `json:"next_period_start,omitempty"`
	DaysUntilNextPeriod *int             `json:"days_until_next_period,omitempty"`
	InFertileWindow     bool             `json:"in_fertile_window"`
	Tips                *PhaseTips       `json:"tips,omitempty"`
	Log                 *models.DailyLog `json:"log,omitempty"`
	Predictions         PredictionSet    `json:"predictions"`
	Warnings            []DataWarning    `json:"warnings"`
}

// BuildDashboard summarises the snapshot as seen on date. Phase wording is
// masked when discreet is set; Phase keeps the raw value.
func BuildDashboard(snapshot *CycleSnapshot, date civil.Date, translator Translator, language string, discreet bool) DashboardView {
	if translator == nil {
		translator = fallbackTranslator{}
	}
	info := ClassifyPhase(date, snapshot.Store.Intervals())
	view := DashboardView{
		Date:            date,
		Phase:           info.Phase,
		PhaseLabel:      DisplayPhase(info.Phase, translator, language, discreet),
		CycleDay:        info.CycleDay,
		HasHistory:      info.HasHistory,
		OnPeriod:        snapshot.Store.IsCovered(date),
		InFertileWindow: NewDateSet(snapshot.Predictions.FertileDates).Has(date),
		Predictions:     snapshot.Predictions,
		Warnings:        snapshot.Store.Warnings(),
	}

	for index, day := range snapshot.Predictions.PeriodDates {
		if index%PredictedPeriodDays != 0 || day.Before(date) {
			continue
		}
		if view.NextPeriodStart == nil || day.Before(*view.NextPeriodStart) {
			next := day
			view.NextPeriodStart = &next
		}
	}
	if view.NextPeriodStart != nil {
		days := view.NextPeriodStart.DaysSince(date)
		view.DaysUntilNextPeriod = &days
	}

	if info.HasHistory {
		tips := BuildPhaseTips(info.Phase, translator, language, discreet)
		view.Tips = &tips
	}

	if entry, ok := snapshot.Store.LogFor(date); ok {
		view.Log = &entry
	}
	return view
}
