package stats

import (
	"testing"
	"time"

	"github.com/Matoxx01/JobCounter/internal/storage"
)

// Helper function to create test times with specific dates
func makeTime(year int, month time.Month, day, hour, min, sec int) time.Time {
	return time.Date(year, month, day, hour, min, sec, 0, time.Local)
}

func makeEntry(id int64, week, offset string) storage.RegisterEntry {
	return storage.RegisterEntry{ID: id, Week: week, Offset: offset}
}

func sampleRegister() []storage.RegisterEntry {
	return []storage.RegisterEntry{
		makeEntry(1, "2023-12-25", "+01:00"),
		makeEntry(2, "2024-01-01", "-00:45"),
		makeEntry(3, "2024-01-08", "+00:00"),
		makeEntry(4, "2024-01-15", "-02:15"),
		makeEntry(5, "2024-01-22", "+03:30"),
	}
}

func TestCalculateStatistics_Empty(t *testing.T) {
	stats := CalculateStatistics(nil, time.Time{}, time.Time{})

	if stats.Weeks != 0 || stats.BalanceSeconds != 0 || stats.AverageSeconds != 0 {
		t.Errorf("expected zero statistics, got %+v", stats)
	}
	if stats.Best != nil || stats.Worst != nil {
		t.Error("Best and Worst should be nil for no entries")
	}
}

func TestCalculateStatistics_AllEntries(t *testing.T) {
	stats := CalculateStatistics(sampleRegister(), time.Time{}, time.Time{})

	if stats.Weeks != 5 {
		t.Errorf("Weeks = %d, expected 5", stats.Weeks)
	}
	// 3600 - 2700 + 0 - 8100 + 12600
	if stats.BalanceSeconds != 5400 {
		t.Errorf("BalanceSeconds = %d, expected 5400", stats.BalanceSeconds)
	}
	if stats.AverageSeconds != 1080 {
		t.Errorf("AverageSeconds = %d, expected 1080", stats.AverageSeconds)
	}
	if stats.SurplusWeeks != 2 || stats.OvertimeWeeks != 2 || stats.EvenWeeks != 1 {
		t.Errorf("surplus/overtime/even = %d/%d/%d, expected 2/2/1",
			stats.SurplusWeeks, stats.OvertimeWeeks, stats.EvenWeeks)
	}
	if stats.Best == nil || stats.Best.ID != 5 {
		t.Errorf("Best = %+v, expected entry 5", stats.Best)
	}
	if stats.Worst == nil || stats.Worst.ID != 4 {
		t.Errorf("Worst = %+v, expected entry 4", stats.Worst)
	}
}

func TestCalculateStatistics_DateRange(t *testing.T) {
	tests := []struct {
		name          string
		start         time.Time
		end           time.Time
		expectedWeeks int
	}{
		{"january only", makeTime(2024, time.January, 1, 0, 0, 0), makeTime(2024, time.January, 31, 23, 59, 59), 4},
		{"open start", time.Time{}, makeTime(2024, time.January, 1, 0, 0, 0), 2},
		{"open end", makeTime(2024, time.January, 15, 12, 0, 0), time.Time{}, 2},
		{"nothing in range", makeTime(2025, time.March, 1, 0, 0, 0), makeTime(2025, time.March, 31, 0, 0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := CalculateStatistics(sampleRegister(), tt.start, tt.end)
			if stats.Weeks != tt.expectedWeeks {
				t.Errorf("Weeks = %d, expected %d", stats.Weeks, tt.expectedWeeks)
			}
		})
	}
}

func TestCalculateStatistics_SkipsBadWeeksWhenFiltering(t *testing.T) {
	entries := []storage.RegisterEntry{
		makeEntry(1, "not-a-week", "+01:00"),
		makeEntry(2, "2024-01-08", "+01:00"),
	}
	stats := CalculateStatistics(entries, makeTime(2024, time.January, 1, 0, 0, 0), time.Time{})
	if stats.Weeks != 1 {
		t.Errorf("Weeks = %d, expected 1", stats.Weeks)
	}
}

func TestCalculateYearBreakdown(t *testing.T) {
	breakdown := CalculateYearBreakdown(sampleRegister())

	if len(breakdown) != 2 {
		t.Fatalf("expected 2 years, got %d", len(breakdown))
	}
	if breakdown[0].Year != 2024 || breakdown[0].Weeks != 4 || breakdown[0].BalanceSeconds != 1800 {
		t.Errorf("2024 breakdown = %+v", breakdown[0])
	}
	if breakdown[1].Year != 2023 || breakdown[1].Weeks != 1 || breakdown[1].BalanceSeconds != 3600 {
		t.Errorf("2023 breakdown = %+v", breakdown[1])
	}
}

func TestCalculateYearBreakdown_Empty(t *testing.T) {
	breakdown := CalculateYearBreakdown(nil)
	if breakdown == nil || len(breakdown) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", breakdown)
	}
}
