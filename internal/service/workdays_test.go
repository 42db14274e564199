package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountWorkingDaysSkipsWeekends(t *testing.T) {
	// Monday 2025-06-02 through Sunday 2025-06-08 with Sat/Sun weekends.
	got := CountWorkingDays(date(2025, time.June, 2), date(2025, time.June, 8), []int{6, 7}, nil)
	require.Equal(t, 5, got)
}

func TestCountWorkingDaysSkipsHolidays(t *testing.T) {
	holidays := []time.Time{date(2025, time.June, 4)} // Wednesday
	got := CountWorkingDays(date(2025, time.June, 2), date(2025, time.June, 8), []int{6, 7}, holidays)
	require.Equal(t, 4, got)
}

func TestCountWorkingDaysHolidayOnWeekendNotDoubleCounted(t *testing.T) {
	holidays := []time.Time{date(2025, time.June, 7)} // Saturday
	got := CountWorkingDays(date(2025, time.June, 2), date(2025, time.June, 8), []int{6, 7}, holidays)
	require.Equal(t, 5, got)
}

func TestCountWorkingDaysEndBeforeStart(t *testing.T) {
	got := CountWorkingDays(date(2025, time.June, 8), date(2025, time.June, 2), []int{6, 7}, nil)
	require.Equal(t, 0, got)
}

func TestCountWorkingDaysSingleDay(t *testing.T) {
	require.Equal(t, 1, CountWorkingDays(date(2025, time.June, 3), date(2025, time.June, 3), []int{6, 7}, nil))
	require.Equal(t, 0, CountWorkingDays(date(2025, time.June, 7), date(2025, time.June, 7), []int{6, 7}, nil))
}

func TestCountWorkingDaysCustomWeekend(t *testing.T) {
	// Friday-only weekend: Mon-Sun loses just the Friday.
	got := CountWorkingDays(date(2025, time.June, 2), date(2025, time.June, 8), []int{5}, nil)
	require.Equal(t, 6, got)
}

func TestCountWorkingDaysIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2025, time.June, 2, 23, 30, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 8, 0, 15, 0, 0, time.UTC)
	require.Equal(t, 5, CountWorkingDays(start, end, []int{6, 7}, nil))
}

func TestLeaveDaysHalfDay(t *testing.T) {
	require.Equal(t, "5", LeaveDays(5, false).String())
	require.Equal(t, "4.5", LeaveDays(5, true).String())
	require.Equal(t, "0.5", LeaveDays(1, true).String())
	require.Equal(t, "0", LeaveDays(0, true).String())
}
