// Package calendar provides pure, stateless arithmetic over work center
// shifts and maintenance windows. Every function here takes its inputs
// explicitly and performs no I/O; all wall-clock comparisons operate on
// time.Time instants, never on formatted strings.
package calendar

import (
	"sort"
	"time"

	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
)

// slotSearchHorizonDays bounds findEarliestValidStart's probe
const slotSearchHorizonDays = 30

// durationWalkHorizonDays bounds calculateEndDateWithShifts's probe.
const durationWalkHorizonDays = 365

// Slot is a maximal contiguous window in which work can occur.
type Slot struct {
	Start   time.Time
	End     time.Time
	Minutes int
}

type interval struct {
	start time.Time
	end   time.Time
}

// IsWithinWorkingHours reports whether t falls inside some shift of wc on
// its local day of week and outside every maintenance window.
func IsWithinWorkingHours(t time.Time, wc domain.WorkCenter, loc *time.Location) bool {
	if inMaintenance(t, wc.MaintenanceWindows) {
		return false
	}
	local := t.In(loc)
	for _, offset := range [2]int{-1, 0} {
		day := local.AddDate(0, 0, offset)
		for _, s := range wc.ShiftsOn(int(day.Weekday())) {
			if s.IsZeroLength() {
				continue
			}
			start, end := shiftOccurrence(day, s, loc)
			if !t.Before(start) && t.Before(end) {
				return true
			}
		}
	}
	return false
}

// FindEarliestValidStart returns the smallest instant >= from that is
// inside a shift and outside every maintenance window. It probes forward
// through candidate shift starts and maintenance-window ends, in
// chronological order, for up to slotSearchHorizonDays; it fails with
// domain.ErrNoWorkableSlot if the horizon is exhausted.
func FindEarliestValidStart(from time.Time, wc domain.WorkCenter, loc *time.Location) (time.Time, error) {
	if IsWithinWorkingHours(from, wc, loc) {
		return from, nil
	}

	horizon := from.AddDate(0, 0, slotSearchHorizonDays)
	candidates := candidateStarts(from, horizon, wc, loc)
	for _, c := range candidates {
		if IsWithinWorkingHours(c, wc, loc) {
			return c, nil
		}
	}
	return time.Time{}, domain.ErrNoWorkableSlot
}

// FindNextWorkableSlot returns the next maximal contiguous slot where work
// can occur at or after from. The slot's start is FindEarliestValidStart;
// its end is the earliest of the containing shift's end or the start of
// the first maintenance window strictly after the start.
func FindNextWorkableSlot(from time.Time, wc domain.WorkCenter, loc *time.Location) (Slot, error) {
	start, err := FindEarliestValidStart(from, wc, loc)
	if err != nil {
		return Slot{}, err
	}

	shiftEnd := containingShiftEnd(start, wc, loc)
	_, end, ok := SubtractMaintenanceWindows(start, shiftEnd, wc.MaintenanceWindows)
	if !ok {
		// start passed IsWithinWorkingHours, so it cannot be fully
		// covered by maintenance; this is a defensive fallback only.
		end = shiftEnd
	}

	return Slot{Start: start, End: end, Minutes: int(end.Sub(start).Minutes())}, nil
}

// CalculateEndDateWithShifts walks durationMinutes of working time forward
// from start, respecting shifts and maintenance, and returns the instant
// at which that much working time has elapsed. Off-shift and maintenance
// time is pure pass-through: it is never counted against the duration.
func CalculateEndDateWithShifts(
	start time.Time,
	durationMinutes int,
	wc domain.WorkCenter,
	loc *time.Location,
) (time.Time, error) {
	if durationMinutes == 0 {
		return start, nil
	}

	horizon := start.AddDate(0, 0, durationWalkHorizonDays)
	remaining := durationMinutes
	cursor := start

	for {
		slot, err := FindNextWorkableSlot(cursor, wc, loc)
		if err != nil {
			return time.Time{}, err
		}
		if slot.Minutes >= remaining {
			return slot.Start.Add(time.Duration(remaining) * time.Minute), nil
		}
		remaining -= slot.Minutes
		cursor = slot.End
		if cursor.After(horizon) {
			return time.Time{}, domain.ErrNoWorkableSlot
		}
	}
}

// SubtractMaintenanceWindows clips [start, end) by every window in order
// of their start time: a window that fully covers the interval yields no
// result; a window clipping the left edge advances the start; a window
// clipping the right edge (or falling strictly inside) retracts the end.
// It returns the first non-empty portion, or ok=false if none remains.
func SubtractMaintenanceWindows(
	start, end time.Time,
	windows []domain.MaintenanceWindow,
) (time.Time, time.Time, bool) {
	sorted := make([]domain.MaintenanceWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	a, b := start, end
	for _, w := range sorted {
		if !w.End.After(a) || !w.Start.Before(b) {
			continue // no overlap with the current interval
		}

		switch {
		case !w.Start.After(a) && !w.End.Before(b):
			// Fully covers [a, b).
			return time.Time{}, time.Time{}, false
		case !w.Start.After(a):
			// Clips the left edge.
			a = w.End
		case !w.End.Before(b):
			// Clips the right edge.
			b = w.Start
		default:
			// Strictly inside: truncate and return the left portion.
			b = w.Start
			return a, b, true
		}

		if !a.Before(b) {
			return time.Time{}, time.Time{}, false
		}
	}
	return a, b, true
}

func inMaintenance(t time.Time, windows []domain.MaintenanceWindow) bool {
	for _, w := range windows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

// shiftOccurrence computes the [start, end) instants of the shift
// definition s as it occurs on the local calendar day `day`. Overnight
// shifts (EndHour < StartHour, once zero-length shifts are excluded)
// terminate at the declared end hour on the following day even if that
// day carries no shift definition of its own.
func shiftOccurrence(day time.Time, s domain.ShiftDefinition, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), s.StartHour, 0, 0, 0, loc)
	if s.IsOvernight() {
		next := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
		return start, next.Add(time.Duration(s.EndHour) * time.Hour)
	}
	end := time.Date(day.Year(), day.Month(), day.Day(), s.EndHour, 0, 0, 0, loc)
	return start, end
}

// containingShiftEnd returns the end of the maximal contiguous shift
// interval (after merging same-day shifts that touch or overlap) that
// contains t. t must already satisfy IsWithinWorkingHours.
func containingShiftEnd(t time.Time, wc domain.WorkCenter, loc *time.Location) time.Time {
	local := t.In(loc)
	var intervals []interval
	for _, offset := range [2]int{-1, 0} {
		day := local.AddDate(0, 0, offset)
		for _, s := range wc.ShiftsOn(int(day.Weekday())) {
			if s.IsZeroLength() {
				continue
			}
			start, end := shiftOccurrence(day, s, loc)
			intervals = append(intervals, interval{start, end})
		}
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i].start.Before(intervals[j].start) })
	merged := mergeIntervals(intervals)
	for _, iv := range merged {
		if !t.Before(iv.start) && t.Before(iv.end) {
			return iv.end
		}
	}
	return t // defensive: should be unreachable given the precondition
}

// mergeIntervals merges overlapping or touching (iv.start <= prev.end)
// intervals from a start-sorted slice into maximal disjoint intervals.
func mergeIntervals(sorted []interval) []interval {
	if len(sorted) == 0 {
		return nil
	}
	merged := []interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.start.After(last.end) {
			if iv.end.After(last.end) {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// candidateStarts returns the sorted, deduplicated set of instants at or
// after from, up to horizon, at which validity could begin: every shift
// occurrence's start (expanded via its weekly recurrence, see
// shift_recurrence.go) and every maintenance window's end.
func candidateStarts(from, horizon time.Time, wc domain.WorkCenter, loc *time.Location) []time.Time {
	var candidates []time.Time

	for _, s := range wc.Shifts {
		if s.IsZeroLength() {
			continue
		}
		for _, day := range shiftOccurrenceDates(s, loc, from.AddDate(0, 0, -1), horizon) {
			start := time.Date(day.Year(), day.Month(), day.Day(), s.StartHour, 0, 0, 0, loc)
			if !start.Before(from) {
				candidates = append(candidates, start)
			}
		}
	}

	for _, w := range wc.MaintenanceWindows {
		if !w.End.Before(from) && !w.End.After(horizon) {
			candidates = append(candidates, w.End)
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Before(candidates[j]) })
	return dedupe(candidates)
}

func dedupe(sorted []time.Time) []time.Time {
	out := sorted[:0:0]
	for i, t := range sorted {
		if i == 0 || !t.Equal(sorted[i-1]) {
			out = append(out, t)
		}
	}
	return out
}
