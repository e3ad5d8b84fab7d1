package services

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/terraincognita07/bloom/internal/models"
)

// Interval is a validated cycle. End is nil when the stored record has no
// explicit end date.
type Interval struct {
	ID    string
	Start civil.Date
	End   *civil.Date
}

func (interval Interval) EffectiveEnd() civil.Date {
	if interval.End != nil {
		return *interval.End
	}
	return interval.Start.AddDays(DefaultCycleSpanDays)
}

func (interval Interval) Contains(day civil.Date) bool {
	return dateBetween(day, interval.Start, interval.EffectiveEnd())
}

func (interval Interval) Length() int {
	return InclusiveDayCount(interval.Start, interval.EffectiveEnd())
}

// DataWarning reports a stored cycle excluded from derived computations.
type DataWarning struct {
	CycleID string `json:"cycle_id"`
	Field   string `json:"field"`
	Value   string `json:"value"`
	Reason  string `json:"reason"`
}

func (warning DataWarning) String() string {
	return fmt.Sprintf("cycle %s: %s %q %s", warning.CycleID, warning.Field, warning.Value, warning.Reason)
}

// ParseCycles converts stored records into intervals sorted by start date.
func ParseCycles(records []models.Cycle) ([]Interval, []DataWarning) {
	intervals := make([]Interval, 0, len(records))
	warnings := make([]DataWarning, 0)

	for _, record := range records {
		start, err := ParseDateKey(record.StartDate)
		if err != nil {
			warnings = append(warnings, DataWarning{
				CycleID: record.ID,
				Field:   "start_date",
				Value:   record.StartDate,
				Reason:  "is not a valid date",
			})
			continue
		}

		interval := Interval{ID: record.ID, Start: start}
		if record.EndDate != nil {
			end, err := ParseDateKey(*record.EndDate)
			if err != nil {
				warnings = append(warnings, DataWarning{
					CycleID: record.ID,
					Field:   "end_date",
					Value:   *record.EndDate,
					Reason:  "is not a valid date",
				})
				continue
			}
			if end.Before(start) {
				warnings = append(warnings, DataWarning{
					CycleID: record.ID,
					Field:   "end_date",
					Value:   *record.EndDate,
					Reason:  "is before start_date",
				})
				continue
			}
			interval.End = &end
		}

		intervals = append(intervals, interval)
	}

	sortIntervalsAscending(intervals)
	return intervals, warnings
}

// IntervalStore is the in-memory view of one user's cycles and day logs.
// It is rebuilt in full after every mutation.
type IntervalStore struct {
	intervals []Interval
	covered   map[civil.Date]struct{}
	dayNumber map[civil.Date]int
	owner     map[civil.Date]string
	logs      map[civil.Date]models.DailyLog
	warnings  []DataWarning
}

func NewIntervalStore(cycles []models.Cycle, logs []models.DailyLog) *IntervalStore {
	store := &IntervalStore{}
	store.Rebuild(cycles, logs)
	return store
}

func (store *IntervalStore) Rebuild(cycles []models.Cycle, logs []models.DailyLog) {
	intervals, warnings := ParseCycles(cycles)

	store.intervals = intervals
	store.warnings = warnings
	store.covered = make(map[civil.Date]struct{})
	store.dayNumber = make(map[civil.Date]int)
	store.owner = make(map[civil.Date]string)
	store.logs = make(map[civil.Date]models.DailyLog, len(logs))

	for _, interval := range intervals {
		end := interval.EffectiveEnd()
		for day, number := interval.Start, 1; !day.After(end); day, number = day.AddDays(1), number+1 {
			store.covered[day] = struct{}{}
			store.dayNumber[day] = number
			store.owner[day] = interval.ID
		}
	}

	for _, entry := range logs {
		if !DayHasData(entry) {
			continue
		}
		day, err := ParseDateKey(entry.Date)
		if err != nil {
			continue
		}
		store.logs[day] = entry
	}
}

func (store *IntervalStore) Intervals() []Interval {
	result := make([]Interval, len(store.intervals))
	copy(result, store.intervals)
	return result
}

func (store *IntervalStore) Warnings() []DataWarning {
	result := make([]DataWarning, len(store.warnings))
	copy(result, store.warnings)
	return result
}

func (store *IntervalStore) IsCovered(day civil.Date) bool {
	_, ok := store.covered[day]
	return ok
}

func (store *IntervalStore) DayNumberOf(day civil.Date) (int, bool) {
	number, ok := store.dayNumber[day]
	return number, ok
}

func (store *IntervalStore) OwnerOf(day civil.Date) (string, bool) {
	id, ok := store.owner[day]
	return id, ok
}

func (store *IntervalStore) LogFor(day civil.Date) (models.DailyLog, bool) {
	entry, ok := store.logs[day]
	return entry, ok
}

func (store *IntervalStore) LogDates() []civil.Date {
	days := make([]civil.Date, 0, len(store.logs))
	for day := range store.logs {
		days = append(days, day)
	}
	sortDates(days)
	return days
}

// CoveredSet returns a copy of the logged-period day set.
func (store *IntervalStore) CoveredSet() DateSet {
	set := make(DateSet, len(store.covered))
	for day := range store.covered {
		set[day] = struct{}{}
	}
	return set
}

func (store *IntervalStore) PeriodDates() []civil.Date {
	days := make([]civil.Date, 0, len(store.covered))
	for day := range store.covered {
		days = append(days, day)
	}
	sortDates(days)
	return days
}

func sortIntervalsAscending(intervals []Interval) {
	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})
}

func sortDates(days []civil.Date) {
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
}
