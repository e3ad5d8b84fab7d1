package services

import (
	"time"

	"cloud.google.com/go/civil"
)

type DateSet map[civil.Date]struct{}

func NewDateSet(days []civil.Date) DateSet {
	set := make(DateSet, len(days))
	for _, day := range days {
		set[day] = struct{}{}
	}
	return set
}

func (set DateSet) Has(day civil.Date) bool {
	_, ok := set[day]
	return ok
}

type RangePosition string

const (
	RangeSingle RangePosition = "single"
	RangeStart  RangePosition = "rangeStart"
	RangeMiddle RangePosition = "middle"
	RangeEnd    RangePosition = "rangeEnd"
)

func ClassifyRangePosition(day civil.Date, set DateSet) RangePosition {
	hasPrevious := set.Has(day.AddDays(-1))
	hasNext := set.Has(day.AddDays(1))
	switch {
	case hasPrevious && hasNext:
		return RangeMiddle
	case hasNext:
		return RangeStart
	case hasPrevious:
		return RangeEnd
	default:
		return RangeSingle
	}
}

type TileKind string

const (
	TileNone            TileKind = ""
	TileLogged          TileKind = "logged"
	TileFertile         TileKind = "fertile"
	TilePredictedPeriod TileKind = "predicted"
)

// Tile is the calendar classification of one day. Position is empty for
// predicted period days, which use a flat marker.
type Tile struct {
	Kind     TileKind      `json:"kind"`
	Position RangePosition `json:"position,omitempty"`
}

func ClassifyTile(day civil.Date, logged DateSet, fertile DateSet, predictedPeriod DateSet) Tile {
	switch {
	case logged.Has(day):
		return Tile{Kind: TileLogged, Position: ClassifyRangePosition(day, logged)}
	case fertile.Has(day):
		return Tile{Kind: TileFertile, Position: ClassifyRangePosition(day, fertile)}
	case predictedPeriod.Has(day):
		return Tile{Kind: TilePredictedPeriod}
	default:
		return Tile{Kind: TileNone}
	}
}

type CalendarDay struct {
	Date      civil.Date `json:"date"`
	Day       int        `json:"day"`
	InMonth   bool       `json:"in_month"`
	IsToday   bool       `json:"is_today"`
	Tile      Tile       `json:"tile"`
	CycleDay  int        `json:"cycle_day,omitempty"`
	HasLog    bool       `json:"has_log"`
	Predicted bool       `json:"predicted_period"`
}

// BuildCalendarMonth returns the Sunday-first grid of whole weeks covering
// month.
func BuildCalendarMonth(month civil.Date, store *IntervalStore, predictions PredictionSet, today civil.Date) []CalendarDay {
	first, last := MonthBounds(month)
	gridStart := first.AddDays(-int(first.In(time.UTC).Weekday()))
	gridEnd := last.AddDays(6 - int(last.In(time.UTC).Weekday()))

	logged := store.CoveredSet()
	fertile := NewDateSet(predictions.FertileDates)
	predictedPeriod := NewDateSet(predictions.PeriodDates)

	days := make([]CalendarDay, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDays(1) {
		cycleDay, _ := store.DayNumberOf(day)
		_, hasLog := store.LogFor(day)
		days = append(days, CalendarDay{
			Date:      day,
			Day:       day.Day,
			InMonth:   day.Month == first.Month,
			IsToday:   day == today,
			Tile:      ClassifyTile(day, logged, fertile, predictedPeriod),
			CycleDay:  cycleDay,
			HasLog:    hasLog,
			Predicted: predictedPeriod.Has(day),
		})
	}
	return days
}
