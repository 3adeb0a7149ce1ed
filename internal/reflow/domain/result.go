package domain

import "time"

// Result is the outcome of placing a single work order on the schedule.
type Result struct {
	WorkOrderID       OrderID
	WorkOrderNumber   string
	OriginalStart     time.Time
	OriginalEnd       time.Time
	NewStart          time.Time
	NewEnd            time.Time
	WasRescheduled    bool
	IsFixed           bool
	// InputIndex is the order's position in the original input slice.
	// Results are delivered in topological (processing) order, not input
	// order; consumers that need input order re-index by this field.
	InputIndex int
}

// Metadata is the aggregate summary returned alongside the per-order
// results of a reflow.
type Metadata struct {
	TotalOrders      int
	RescheduledCount int
	FixedCount       int
	ProcessingTimeMs int64
}

// Output is the full result of a single reflow call.
type Output struct {
	Results  []Result
	Warnings []string
	Metadata Metadata
}
