package domain

// WorkCenter is a machine or resource with a shift calendar. A work order
// runs on exactly one work center.
type WorkCenter struct {
	ID                 WorkCenterID
	Name               string
	Shifts             []ShiftDefinition
	MaintenanceWindows []MaintenanceWindow
}

// ShiftsOn returns the union of shifts defined for the given weekday.
func (wc WorkCenter) ShiftsOn(day int) []ShiftDefinition {
	var out []ShiftDefinition
	for _, s := range wc.Shifts {
		if int(s.DayOfWeek) == day {
			out = append(out, s)
		}
	}
	return out
}
