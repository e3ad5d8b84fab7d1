package services

import "testing"

func TestBuildCycleHistoryStats(t *testing.T) {
	intervals := []Interval{
		closedInterval(t, "c", "2024-03-01", "2024-03-05"),
		closedInterval(t, "a", "2024-01-01", "2024-01-04"),
		closedInterval(t, "b", "2024-01-31", "2024-02-02"),
		closedInterval(t, "d", "2024-03-11", "2024-03-12"),
	}

	stats := BuildCycleHistoryStats(intervals)
	if stats.CycleCount != 4 {
		t.Fatalf("expected 4 cycles, got %d", stats.CycleCount)
	}
	if stats.AverageCycleLength != 30 {
		t.Fatalf("expected plausible gaps 30 and 30 to average 30, got %d", stats.AverageCycleLength)
	}
	if stats.AveragePeriodDays != 3.5 {
		t.Fatalf("expected average period of 3.5 days, got %v", stats.AveragePeriodDays)
	}

	if stats.Recent[0].Start.String() != "2024-01-01" || stats.Recent[3].End.String() != "2024-03-12" {
		t.Fatalf("expected recent cycles oldest first, got %+v", stats.Recent)
	}

	wantGaps := []struct {
		days    int
		counted bool
	}{{30, true}, {30, true}, {10, false}}
	if len(stats.Gaps) != len(wantGaps) {
		t.Fatalf("expected %d gaps, got %+v", len(wantGaps), stats.Gaps)
	}
	for index, want := range wantGaps {
		if stats.Gaps[index].Days != want.days || stats.Gaps[index].Counted != want.counted {
			t.Fatalf("gap %d: expected %+v, got %+v", index, want, stats.Gaps[index])
		}
	}
}

func TestBuildCycleHistoryStatsKeepsMostRecentCycles(t *testing.T) {
	intervals := make([]Interval, 0, 8)
	start := mustDate(t, "2023-01-01")
	for index := 0; index < 8; index++ {
		intervals = append(intervals, Interval{ID: start.String(), Start: start})
		start = start.AddDays(28)
	}

	stats := BuildCycleHistoryStats(intervals)
	if len(stats.Recent) != statsRecentCycles {
		t.Fatalf("expected %d recent cycles, got %d", statsRecentCycles, len(stats.Recent))
	}
	if stats.Recent[0].Start != intervals[2].Start {
		t.Fatalf("expected oldest kept cycle %s, got %s", intervals[2].Start, stats.Recent[0].Start)
	}
	if len(stats.Gaps) != 7 || stats.AverageCycleLength != 28 {
		t.Fatalf("expected 7 gaps averaging 28, got %d gaps averaging %d", len(stats.Gaps), stats.AverageCycleLength)
	}
}

func TestBuildCycleHistoryStatsEmpty(t *testing.T) {
	stats := BuildCycleHistoryStats(nil)
	if stats.CycleCount != 0 || stats.AverageCycleLength != DefaultAverageCycleLength {
		t.Fatalf("unexpected empty stats %+v", stats)
	}
	if stats.Recent == nil || stats.Gaps == nil {
		t.Fatal("expected empty slices for JSON output")
	}
}
