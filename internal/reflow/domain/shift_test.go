package domain_test

import (
	"testing"
	"time"

	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
	"github.com/stretchr/testify/assert"
)

func TestShiftDefinition_IsOvernight(t *testing.T) {
	assert.True(t, domain.ShiftDefinition{StartHour: 22, EndHour: 6}.IsOvernight())
	assert.False(t, domain.ShiftDefinition{StartHour: 9, EndHour: 17}.IsOvernight())
	assert.True(t, domain.ShiftDefinition{StartHour: 9, EndHour: 9}.IsOvernight())
}

func TestShiftDefinition_IsZeroLength(t *testing.T) {
	assert.True(t, domain.ShiftDefinition{StartHour: 9, EndHour: 9}.IsZeroLength())
	assert.False(t, domain.ShiftDefinition{StartHour: 9, EndHour: 17}.IsZeroLength())
}

func TestMaintenanceWindow_Contains(t *testing.T) {
	w := domain.MaintenanceWindow{
		Start: time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(w.End)) // half-open
	assert.False(t, w.Contains(w.Start.Add(-time.Minute)))
	assert.True(t, w.Contains(w.Start.Add(time.Hour)))
}

func TestMaintenanceWindow_Overlaps(t *testing.T) {
	w := domain.MaintenanceWindow{
		Start: time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Overlaps(w.Start.Add(-time.Hour), w.Start.Add(time.Hour)))
	assert.False(t, w.Overlaps(w.End, w.End.Add(time.Hour)))
	assert.False(t, w.Overlaps(w.Start.Add(-2*time.Hour), w.Start))
}

func TestWorkCenter_ShiftsOn(t *testing.T) {
	wc := domain.WorkCenter{
		Shifts: []domain.ShiftDefinition{
			{DayOfWeek: time.Monday, StartHour: 9, EndHour: 13},
			{DayOfWeek: time.Monday, StartHour: 14, EndHour: 17},
			{DayOfWeek: time.Tuesday, StartHour: 9, EndHour: 17},
		},
	}

	mon := wc.ShiftsOn(int(time.Monday))
	assert.Len(t, mon, 2)

	sun := wc.ShiftsOn(int(time.Sunday))
	assert.Empty(t, sun)
}

func TestWorkOrder_Duration(t *testing.T) {
	wo := domain.WorkOrder{DurationMinutes: 90}
	assert.Equal(t, 90*time.Minute, wo.Duration())
}
