// Package stats summarizes the register.
//
// An offset is what was left of the weekly quota when the week closed:
// positive means time to spare, negative means overtime.
package stats

import (
	"sort"
	"time"

	"github.com/Matoxx01/JobCounter/internal/storage"
	"github.com/Matoxx01/JobCounter/internal/timeutil"
)

// Statistics contains aggregated figures for a set of register entries
type Statistics struct {
	Weeks          int
	BalanceSeconds int64
	AverageSeconds int64
	SurplusWeeks   int
	OvertimeWeeks  int
	EvenWeeks      int
	// Best and Worst are the entries with the largest and smallest offset.
	Best  *storage.RegisterEntry
	Worst *storage.RegisterEntry
}

// YearBreakdown contains statistics for one calendar year of weeks
type YearBreakdown struct {
	Year           int
	Weeks          int
	BalanceSeconds int64
}

// CalculateStatistics computes statistics for entries whose week starts
// within [start, end]. A zero start or end leaves that side open.
func CalculateStatistics(entries []storage.RegisterEntry, start, end time.Time) Statistics {
	stats := Statistics{}
	var bestSeconds, worstSeconds int64

	for _, e := range entries {
		if !inRange(e, start, end) {
			continue
		}
		seconds, _ := timeutil.ParseShort(e.Offset)

		stats.Weeks++
		stats.BalanceSeconds += seconds
		switch {
		case seconds > 0:
			stats.SurplusWeeks++
		case seconds < 0:
			stats.OvertimeWeeks++
		default:
			stats.EvenWeeks++
		}

		if stats.Best == nil || seconds > bestSeconds {
			e := e
			stats.Best, bestSeconds = &e, seconds
		}
		if stats.Worst == nil || seconds < worstSeconds {
			e := e
			stats.Worst, worstSeconds = &e, seconds
		}
	}

	if stats.Weeks > 0 {
		stats.AverageSeconds = stats.BalanceSeconds / int64(stats.Weeks)
	}
	return stats
}

// CalculateYearBreakdown groups entries by the year of their week and returns
// the groups newest first. Entries with an unreadable week are skipped.
func CalculateYearBreakdown(entries []storage.RegisterEntry) []YearBreakdown {
	if len(entries) == 0 {
		return []YearBreakdown{}
	}

	yearMap := make(map[int]*YearBreakdown)
	for _, e := range entries {
		week, err := timeutil.ParseWeekKey(e.Week)
		if err != nil {
			continue
		}
		seconds, _ := timeutil.ParseShort(e.Offset)

		year := week.Year()
		if _, exists := yearMap[year]; !exists {
			yearMap[year] = &YearBreakdown{Year: year}
		}
		yearMap[year].Weeks++
		yearMap[year].BalanceSeconds += seconds
	}

	breakdowns := make([]YearBreakdown, 0, len(yearMap))
	for _, b := range yearMap {
		breakdowns = append(breakdowns, *b)
	}
	sort.Slice(breakdowns, func(i, j int) bool {
		return breakdowns[i].Year > breakdowns[j].Year
	})
	return breakdowns
}

func inRange(e storage.RegisterEntry, start, end time.Time) bool {
	if start.IsZero() && end.IsZero() {
		return true
	}
	week, err := timeutil.ParseWeekKey(e.Week)
	if err != nil {
		return false
	}
	if !start.IsZero() && week.Before(timeutil.StartOfDay(start)) {
		return false
	}
	if !end.IsZero() && week.After(end) {
		return false
	}
	return true
}
