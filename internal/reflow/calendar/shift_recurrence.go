package calendar

import (
	"time"

	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
	"github.com/teambition/rrule-go"
)

// rruleWeekdays maps time.Weekday (Sunday = 0) to rrule-go's Monday-first
// Weekday constants.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// shiftOccurrenceDates expands a shift definition's weekly recurrence into
// the local calendar dates, within [from minus one day, until], on which
// it occurs. The
// recurrence is anchored a week before `from` so that a date already in
// progress is still produced. The hour-of-day portion of the returned
// dates is not meaningful; callers combine the date with s.StartHour.
func shiftOccurrenceDates(s domain.ShiftDefinition, loc *time.Location, from, until time.Time) []time.Time {
	local := from.In(loc)
	anchor := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -7)

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{rruleWeekdays[s.DayOfWeek]},
		Dtstart:   anchor,
	})
	if err != nil {
		// s.DayOfWeek is always in [0,6] and Dtstart is always valid, so
		// rrule.NewRRule cannot fail for the options constructed above.
		return nil
	}

	return r.Between(from.AddDate(0, 0, -1), until, true)
}
