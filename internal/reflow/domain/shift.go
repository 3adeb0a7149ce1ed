package domain

import "time"

// ShiftDefinition is a recurring weekly window during which a work center
// can run work. DayOfWeek follows time.Weekday (0 = Sunday .. 6 = Saturday).
// When EndHour <= StartHour the shift wraps past midnight into the next
// calendar day; EndHour == StartHour means zero working minutes.
type ShiftDefinition struct {
	DayOfWeek time.Weekday
	StartHour int // 0..23
	EndHour   int // 0..23
}

// IsOvernight reports whether the shift wraps past midnight.
func (s ShiftDefinition) IsOvernight() bool {
	return s.EndHour <= s.StartHour
}

// IsZeroLength reports whether the shift contributes no working minutes.
// endHour == startHour is treated as a degenerate, representable,
// zero-minute shift rather than rejected at construction.
func (s ShiftDefinition) IsZeroLength() bool {
	return s.EndHour == s.StartHour
}

// MaintenanceWindow is a half-open absolute-time interval [Start, End)
// during which a work center cannot run work. It takes precedence over
// shifts. Overlapping windows are allowed; callers treat the union.
type MaintenanceWindow struct {
	Start  time.Time // UTC
	End    time.Time // UTC
	Reason string
}

// Contains reports whether t falls inside the half-open window.
func (m MaintenanceWindow) Contains(t time.Time) bool {
	return !t.Before(m.Start) && t.Before(m.End)
}

// Overlaps reports whether [start, end) intersects the window.
func (m MaintenanceWindow) Overlaps(start, end time.Time) bool {
	return start.Before(m.End) && end.After(m.Start)
}
