package calendar_test

import (
	"testing"
	"time"

	"github.com/stefan123292/schedule-reflow/internal/reflow/calendar"
	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var utc = time.UTC

func weekdayShiftCenter() domain.WorkCenter {
	return domain.WorkCenter{
		ID: "wc-1",
		Shifts: []domain.ShiftDefinition{
			{DayOfWeek: time.Monday, StartHour: 9, EndHour: 17},
			{DayOfWeek: time.Tuesday, StartHour: 9, EndHour: 17},
			{DayOfWeek: time.Wednesday, StartHour: 9, EndHour: 17},
			{DayOfWeek: time.Thursday, StartHour: 9, EndHour: 17},
			{DayOfWeek: time.Friday, StartHour: 9, EndHour: 17},
		},
	}
}

func TestIsWithinWorkingHours(t *testing.T) {
	wc := weekdayShiftCenter()

	assert.True(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 15, 10, 0, 0, 0, utc), wc, utc)) // Monday 10:00
	assert.False(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 15, 8, 0, 0, 0, utc), wc, utc)) // before shift
	assert.False(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 15, 17, 0, 0, 0, utc), wc, utc)) // shift end, exclusive
	assert.False(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 14, 10, 0, 0, 0, utc), wc, utc)) // Sunday
}

func TestIsWithinWorkingHours_OvernightShift(t *testing.T) {
	wc := domain.WorkCenter{
		Shifts: []domain.ShiftDefinition{{DayOfWeek: time.Monday, StartHour: 22, EndHour: 6}},
	}

	assert.True(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 15, 23, 0, 0, 0, utc), wc, utc)) // Monday 23:00
	assert.True(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 16, 2, 0, 0, 0, utc), wc, utc))  // Tuesday 02:00, carried over
	assert.False(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 16, 6, 0, 0, 0, utc), wc, utc)) // Tuesday 06:00, shift end
	assert.False(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 15, 21, 0, 0, 0, utc), wc, utc))
}

func TestIsWithinWorkingHours_ZeroLengthShiftNeverMatches(t *testing.T) {
	wc := domain.WorkCenter{
		Shifts: []domain.ShiftDefinition{{DayOfWeek: time.Monday, StartHour: 9, EndHour: 9}},
	}
	assert.False(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 15, 9, 0, 0, 0, utc), wc, utc))
}

func TestIsWithinWorkingHours_MaintenanceOverridesShift(t *testing.T) {
	wc := weekdayShiftCenter()
	wc.MaintenanceWindows = []domain.MaintenanceWindow{{
		Start: time.Date(2024, 1, 15, 11, 0, 0, 0, utc),
		End:   time.Date(2024, 1, 15, 13, 0, 0, 0, utc),
	}}

	assert.False(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 15, 12, 0, 0, 0, utc), wc, utc))
	assert.True(t, calendar.IsWithinWorkingHours(time.Date(2024, 1, 15, 13, 0, 0, 0, utc), wc, utc)) // half-open end
}

func TestFindEarliestValidStart_AlreadyValid(t *testing.T) {
	wc := weekdayShiftCenter()
	from := time.Date(2024, 1, 15, 10, 0, 0, 0, utc)

	got, err := calendar.FindEarliestValidStart(from, wc, utc)
	require.NoError(t, err)
	assert.Equal(t, from, got)
}

func TestFindEarliestValidStart_SkipsWeekendToMonday(t *testing.T) {
	wc := weekdayShiftCenter()
	from := time.Date(2024, 1, 14, 10, 0, 0, 0, utc) // Sunday

	got, err := calendar.FindEarliestValidStart(from, wc, utc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 0, 0, 0, utc), got)
}

func TestFindEarliestValidStart_ResumesAfterMidShiftMaintenance(t *testing.T) {
	wc := weekdayShiftCenter()
	wc.MaintenanceWindows = []domain.MaintenanceWindow{{
		Start: time.Date(2024, 1, 15, 11, 0, 0, 0, utc),
		End:   time.Date(2024, 1, 15, 13, 0, 0, 0, utc),
	}}

	got, err := calendar.FindEarliestValidStart(time.Date(2024, 1, 15, 11, 0, 0, 0, utc), wc, utc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 13, 0, 0, 0, utc), got)
}

func TestFindEarliestValidStart_NoShiftsExhaustsHorizon(t *testing.T) {
	wc := domain.WorkCenter{}
	_, err := calendar.FindEarliestValidStart(time.Date(2024, 1, 15, 10, 0, 0, 0, utc), wc, utc)
	assert.True(t, domain.IsNoWorkableSlot(err))
}

func TestFindNextWorkableSlot_StopsAtMaintenance(t *testing.T) {
	wc := weekdayShiftCenter()
	wc.MaintenanceWindows = []domain.MaintenanceWindow{{
		Start: time.Date(2024, 1, 15, 11, 0, 0, 0, utc),
		End:   time.Date(2024, 1, 15, 13, 0, 0, 0, utc),
	}}

	slot, err := calendar.FindNextWorkableSlot(time.Date(2024, 1, 15, 10, 0, 0, 0, utc), wc, utc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 0, 0, 0, utc), slot.Start)
	assert.Equal(t, time.Date(2024, 1, 15, 11, 0, 0, 0, utc), slot.End)
	assert.Equal(t, 60, slot.Minutes)
}

func TestFindNextWorkableSlot_MergesTouchingShifts(t *testing.T) {
	wc := domain.WorkCenter{
		Shifts: []domain.ShiftDefinition{
			{DayOfWeek: time.Monday, StartHour: 9, EndHour: 13},
			{DayOfWeek: time.Monday, StartHour: 13, EndHour: 17},
		},
	}

	slot, err := calendar.FindNextWorkableSlot(time.Date(2024, 1, 15, 9, 0, 0, 0, utc), wc, utc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 17, 0, 0, 0, utc), slot.End)
}

func TestCalculateEndDateWithShifts_WithinSingleShift(t *testing.T) {
	wc := weekdayShiftCenter()
	end, err := calendar.CalculateEndDateWithShifts(time.Date(2024, 1, 15, 10, 0, 0, 0, utc), 120, wc, utc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, utc), end)
}

func TestCalculateEndDateWithShifts_SpansIntoNextShift(t *testing.T) {
	wc := weekdayShiftCenter()
	end, err := calendar.CalculateEndDateWithShifts(time.Date(2024, 1, 15, 16, 0, 0, 0, utc), 120, wc, utc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 16, 10, 0, 0, 0, utc), end)
}

func TestCalculateEndDateWithShifts_ZeroDurationReturnsStart(t *testing.T) {
	wc := weekdayShiftCenter()
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, utc)
	end, err := calendar.CalculateEndDateWithShifts(start, 0, wc, utc)
	require.NoError(t, err)
	assert.Equal(t, start, end)
}

func TestSubtractMaintenanceWindows_StrictlyInsideTruncatesToLeftPortion(t *testing.T) {
	a := time.Date(2024, 1, 15, 9, 0, 0, 0, utc)
	b := time.Date(2024, 1, 15, 17, 0, 0, 0, utc)
	windows := []domain.MaintenanceWindow{{
		Start: time.Date(2024, 1, 15, 11, 0, 0, 0, utc),
		End:   time.Date(2024, 1, 15, 13, 0, 0, 0, utc),
	}}

	gotA, gotB, ok := calendar.SubtractMaintenanceWindows(a, b, windows)
	require.True(t, ok)
	assert.Equal(t, a, gotA)
	assert.Equal(t, time.Date(2024, 1, 15, 11, 0, 0, 0, utc), gotB)
}

func TestSubtractMaintenanceWindows_FullyCoveredIsEmpty(t *testing.T) {
	a := time.Date(2024, 1, 15, 9, 0, 0, 0, utc)
	b := time.Date(2024, 1, 15, 17, 0, 0, 0, utc)
	windows := []domain.MaintenanceWindow{{Start: a.Add(-time.Hour), End: b.Add(time.Hour)}}

	_, _, ok := calendar.SubtractMaintenanceWindows(a, b, windows)
	assert.False(t, ok)
}
