package services

import (
	"math"

	"cloud.google.com/go/civil"
)

const (
	DefaultAverageCycleLength = 28
	PredictedCycleCount       = 6
	PredictedPeriodDays       = 4
	LutealPhaseDays           = 14

	minPlausibleCycleGap = 20
	maxPlausibleCycleGap = 40
)

type PredictionSet struct {
	AverageCycleLength int          `json:"average_cycle_length"`
	PeriodDates        []civil.Date `json:"period_dates"`
	FertileDates       []civil.Date `json:"fertile_dates"`
}

// AverageCycleLength averages the gaps between consecutive starts, ignoring
// gaps of 20 days or less and 40 days or more.
func AverageCycleLength(intervals []Interval) int {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sortIntervalsAscending(sorted)

	sum := 0
	count := 0
	for index := 1; index < len(sorted); index++ {
		gap := sorted[index].Start.DaysSince(sorted[index-1].Start)
		if gap > minPlausibleCycleGap && gap < maxPlausibleCycleGap {
			sum += gap
			count++
		}
	}
	if count == 0 {
		return DefaultAverageCycleLength
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// BuildPredictions projects the next cycles from the latest start. Dates
// are chronological inside each projected cycle only.
func BuildPredictions(intervals []Interval) PredictionSet {
	average := AverageCycleLength(intervals)
	set := PredictionSet{
		AverageCycleLength: average,
		PeriodDates:        make([]civil.Date, 0),
		FertileDates:       make([]civil.Date, 0),
	}
	if len(intervals) == 0 {
		return set
	}

	last := intervals[0].Start
	for _, interval := range intervals[1:] {
		if interval.Start.After(last) {
			last = interval.Start
		}
	}

	for cycle := 1; cycle <= PredictedCycleCount; cycle++ {
		nextStart := last.AddDays(average * cycle)
		for offset := 0; offset < PredictedPeriodDays; offset++ {
			set.PeriodDates = append(set.PeriodDates, nextStart.AddDays(offset))
		}

		anchor := nextStart.AddDays(-LutealPhaseDays)
		for offset := -4; offset <= 1; offset++ {
			set.FertileDates = append(set.FertileDates, anchor.AddDays(offset))
		}
	}
	return set
}

// NextPeriodStart returns the first projected start, if any.
func (set PredictionSet) NextPeriodStart() (civil.Date, bool) {
	if len(set.PeriodDates) == 0 {
		return civil.Date{}, false
	}
	return set.PeriodDates[0], true
}
