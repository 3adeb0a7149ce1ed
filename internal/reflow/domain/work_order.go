package domain

import "time"

// WorkOrder is a unit of production work awaiting placement on the
// schedule. Work orders are immutable and read-only during a reflow; the
// engine never mutates one, it only produces a Result alongside it.
type WorkOrder struct {
	ID              OrderID
	Number          string // free-form human label, never used for logic
	WorkCenterID    WorkCenterID
	OriginalStart   time.Time // UTC
	OriginalEnd     time.Time // UTC
	DurationMinutes int
	IsMaintenance   bool
	DependsOn       []OrderID
}

// Duration returns the required working duration.
func (w WorkOrder) Duration() time.Duration {
	return time.Duration(w.DurationMinutes) * time.Minute
}
