package services

import (
	"cloud.google.com/go/civil"
)

type Phase string

const (
	PhaseMenstrual  Phase = "Menstrual"
	PhaseFollicular Phase = "Follicular"
	PhaseOvulation  Phase = "Ovulation"
	PhaseLuteal     Phase = "Luteal"
)

var AllPhases = []Phase{PhaseMenstrual, PhaseFollicular, PhaseOvulation, PhaseLuteal}

type PhaseInfo struct {
	CycleDay   int         `json:"cycle_day"`
	Phase      Phase       `json:"phase"`
	CycleStart *civil.Date `json:"cycle_start,omitempty"`
	HasHistory bool        `json:"has_history"`
}

func PhaseForCycleDay(day int) Phase {
	switch {
	case day <= 5:
		return PhaseMenstrual
	case day <= 14:
		return PhaseFollicular
	case day <= 21:
		return PhaseOvulation
	default:
		return PhaseLuteal
	}
}

// ClassifyPhase anchors on the latest cycle starting on or before target.
// Without one the result is day 1 of the follicular phase.
func ClassifyPhase(target civil.Date, intervals []Interval) PhaseInfo {
	var anchor *Interval
	for index := range intervals {
		if intervals[index].Start.After(target) {
			continue
		}
		if anchor == nil || intervals[index].Start.After(anchor.Start) {
			anchor = &intervals[index]
		}
	}
	if anchor == nil {
		return PhaseInfo{CycleDay: 1, Phase: PhaseFollicular}
	}

	info := PartnerPhase(anchor.Start, target)
	info.HasHistory = true
	return info
}

// PartnerPhase classifies today against a single known start date.
func PartnerPhase(lastStart civil.Date, today civil.Date) PhaseInfo {
	day := InclusiveDayCount(lastStart, today)
	if day < 1 {
		day = 1
	}
	return PhaseInfo{
		CycleDay:   day,
		Phase:      PhaseForCycleDay(day),
		CycleStart: &lastStart,
		HasHistory: true,
	}
}
