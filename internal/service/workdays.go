package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maher-jaber/rh-altra-api/internal/models"
)

// CountWorkingDays counts the days in [start, end] inclusive that are neither
// configured weekend days nor registered holidays. Weekend days use ISO
// numbering (1=Monday .. 7=Sunday). Returns 0 when end precedes start.
func CountWorkingDays(start, end time.Time, weekendDays []int, holidays []time.Time) int {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return 0
	}

	weekend := make(map[int]struct{}, len(weekendDays))
	for _, d := range weekendDays {
		weekend[d] = struct{}{}
	}
	holidaySet := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		holidaySet[truncateDay(h)] = struct{}{}
	}

	count := 0
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if _, ok := weekend[isoWeekday(day)]; ok {
			continue
		}
		if _, ok := holidaySet[day]; ok {
			continue
		}
		count++
	}
	return count
}

// LeaveDays converts a working-day count into the charged day amount,
// subtracting half a day when the half-day flag is set. The charge never
// drops below half a day for a non-empty range.
func LeaveDays(workingDays int, halfDay bool) decimal.Decimal {
	days := decimal.NewFromInt(int64(workingDays))
	if halfDay && workingDays > 0 {
		days = days.Sub(decimal.NewFromFloat(0.5))
	}
	return days
}

// HolidayDates extracts the bare dates from holiday rows.
func HolidayDates(holidays []models.Holiday) []time.Time {
	dates := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Date)
	}
	return dates
}

func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
