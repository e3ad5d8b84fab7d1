package services

import (
	"cloud.google.com/go/civil"
)

const statsRecentCycles = 6

type CyclePoint struct {
	Start  civil.Date `json:"start"`
	End    civil.Date `json:"end"`
	Length int        `json:"length"`
}

type CycleGap struct {
	From civil.Date `json:"from"`
	To   civil.Date `json:"to"`
	Days int        `json:"days"`
	// Counted is false for gaps the average ignores as implausible.
	Counted bool `json:"counted"`
}

type CycleHistoryStats struct {
	CycleCount         int          `json:"cycle_count"`
	AverageCycleLength int          `json:"average_cycle_length"`
	AveragePeriodDays  float64      `json:"average_period_days"`
	Recent             []CyclePoint `json:"recent"`
	Gaps               []CycleGap   `json:"gaps"`
}

// BuildCycleHistoryStats returns graph data for the most recent cycles,
// oldest first.
func BuildCycleHistoryStats(intervals []Interval) CycleHistoryStats {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sortIntervalsAscending(sorted)

	stats := CycleHistoryStats{
		CycleCount:         len(sorted),
		AverageCycleLength: AverageCycleLength(sorted),
		Recent:             make([]CyclePoint, 0, statsRecentCycles),
		Gaps:               make([]CycleGap, 0),
	}

	recent := sorted
	if len(recent) > statsRecentCycles {
		recent = recent[len(recent)-statsRecentCycles:]
	}
	periodDays := 0
	for _, interval := range recent {
		stats.Recent = append(stats.Recent, CyclePoint{
			Start:  interval.Start,
			End:    interval.EffectiveEnd(),
			Length: interval.Length(),
		})
		periodDays += interval.Length()
	}
	if len(recent) > 0 {
		stats.AveragePeriodDays = float64(periodDays) / float64(len(recent))
	}

	for index := 1; index < len(sorted); index++ {
		days := sorted[index].Start.DaysSince(sorted[index-1].Start)
		stats.Gaps = append(stats.Gaps, CycleGap{
			From:    sorted[index-1].Start,
			To:      sorted[index].Start,
			Days:    days,
			Counted: days > minPlausibleCycleGap && days < maxPlausibleCycleGap,
		})
	}
	return stats
}
