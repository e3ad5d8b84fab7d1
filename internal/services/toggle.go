package services

import (
	"cloud.google.com/go/civil"
)

type ToggleKind string

const (
	ToggleDelete       ToggleKind = "delete"
	ToggleShrink       ToggleKind = "shrink"
	ToggleMerge        ToggleKind = "merge"
	ToggleExtend       ToggleKind = "extend"
	ToggleRetractStart ToggleKind = "retract_start"
	ToggleInsert       ToggleKind = "insert"
)

// ToggleAction is the single structural mutation decided for a clicked day.
// Only the fields relevant to Kind are set.
type ToggleAction struct {
	Kind ToggleKind `json:"kind"`
	Date civil.Date `json:"date"`

	// TargetID is the deleted, shrunk, extended, retracted or absorbing cycle.
	TargetID string `json:"target_id,omitempty"`
	// AbsorbedID is the cycle removed by a merge.
	AbsorbedID string `json:"absorbed_id,omitempty"`

	NewStart *civil.Date `json:"new_start,omitempty"`
	NewEnd   *civil.Date `json:"new_end,omitempty"`

	// WholeRange marks a delete that removes a multi-day cycle.
	WholeRange bool `json:"whole_range"`
}

// DecideToggle never fails: every day maps to exactly one action.
func DecideToggle(day civil.Date, intervals []Interval) ToggleAction {
	if existing, ok := findContaining(day, intervals); ok {
		end := existing.EffectiveEnd()
		if day == end {
			if existing.Start == end {
				return ToggleAction{Kind: ToggleDelete, Date: day, TargetID: existing.ID}
			}
			newEnd := day.AddDays(-1)
			return ToggleAction{Kind: ToggleShrink, Date: day, TargetID: existing.ID, NewEnd: &newEnd}
		}
		return ToggleAction{Kind: ToggleDelete, Date: day, TargetID: existing.ID, WholeRange: true}
	}

	previous, hasPrevious := findEndingOn(day.AddDays(-1), intervals)
	next, hasNext := findStartingOn(day.AddDays(1), intervals)

	switch {
	case hasPrevious && hasNext:
		newEnd := next.EffectiveEnd()
		return ToggleAction{
			Kind:       ToggleMerge,
			Date:       day,
			TargetID:   previous.ID,
			AbsorbedID: next.ID,
			NewEnd:     &newEnd,
		}
	case hasPrevious:
		newEnd := day
		return ToggleAction{Kind: ToggleExtend, Date: day, TargetID: previous.ID, NewEnd: &newEnd}
	case hasNext:
		newStart := day
		return ToggleAction{Kind: ToggleRetractStart, Date: day, TargetID: next.ID, NewStart: &newStart}
	default:
		newStart := day
		newEnd := day
		return ToggleAction{Kind: ToggleInsert, Date: day, NewStart: &newStart, NewEnd: &newEnd}
	}
}

// ApplyToIntervals returns the interval set the action would produce. It
// mirrors what the storage mutation does and is used to check decisions
// without touching storage.
func ApplyToIntervals(action ToggleAction, intervals []Interval, newID string) []Interval {
	result := make([]Interval, 0, len(intervals)+1)
	for _, interval := range intervals {
		switch {
		case interval.ID == action.AbsorbedID && action.Kind == ToggleMerge:
			continue
		case interval.ID == action.TargetID && action.Kind == ToggleDelete:
			continue
		case interval.ID == action.TargetID && (action.Kind == ToggleShrink || action.Kind == ToggleExtend || action.Kind == ToggleMerge):
			end := *action.NewEnd
			interval.End = &end
		case interval.ID == action.TargetID && action.Kind == ToggleRetractStart:
			interval.Start = *action.NewStart
		}
		result = append(result, interval)
	}
	if action.Kind == ToggleInsert {
		end := *action.NewEnd
		result = append(result, Interval{ID: newID, Start: *action.NewStart, End: &end})
	}
	sortIntervalsAscending(result)
	return result
}

func findContaining(day civil.Date, intervals []Interval) (Interval, bool) {
	for _, interval := range intervals {
		if interval.Contains(day) {
			return interval, true
		}
	}
	return Interval{}, false
}

func findEndingOn(day civil.Date, intervals []Interval) (Interval, bool) {
	for _, interval := range intervals {
		if interval.EffectiveEnd() == day {
			return interval, true
		}
	}
	return Interval{}, false
}

func findStartingOn(day civil.Date, intervals []Interval) (Interval, bool) {
	for _, interval := range intervals {
		if interval.Start == day {
			return interval, true
		}
	}
	return Interval{}, false
}
