package domain

import (
	shareddomain "github.com/stefan123292/schedule-reflow/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	// AggregateType identifies reflow-run events for routing and logging.
	AggregateType = "ReflowRun"

	// RoutingKeyReflowCompleted is the topic exchange routing key for a
	// ReflowCompleted event.
	RoutingKeyReflowCompleted = "reflow.run.completed"

	// RoutingKeyOrderDelayed is the topic exchange routing key for an
	// OrderDelayed event.
	RoutingKeyOrderDelayed = "reflow.order.delayed"
)

// ReflowCompleted is emitted once a reflow call finishes successfully. It
// carries only aggregate metadata, never individual results: results stay
// in the synchronous response, consistent with the scheduler being a pure
// function with no persisted state.
type ReflowCompleted struct {
	shareddomain.BaseEvent
	TotalOrders      int   `json:"total_orders"`
	RescheduledCount int   `json:"rescheduled_count"`
	FixedCount       int   `json:"fixed_count"`
	WarningCount     int   `json:"warning_count"`
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// NewReflowCompleted builds a ReflowCompleted event for the given run.
// runID identifies this call for tracing; it is generated by the caller
// and has no relationship to any work order or work center id.
func NewReflowCompleted(runID uuid.UUID, out Output) ReflowCompleted {
	return ReflowCompleted{
		BaseEvent:        shareddomain.NewBaseEvent(runID, AggregateType, RoutingKeyReflowCompleted),
		TotalOrders:      out.Metadata.TotalOrders,
		RescheduledCount: out.Metadata.RescheduledCount,
		FixedCount:       out.Metadata.FixedCount,
		WarningCount:     len(out.Warnings),
		ProcessingTimeMs: out.Metadata.ProcessingTimeMs,
	}
}

// OrderDelayed is emitted for each work order whose new start moved later
// than its original start.
type OrderDelayed struct {
	shareddomain.BaseEvent
	WorkOrderID     string `json:"work_order_id"`
	WorkOrderNumber string `json:"work_order_number"`
	DelayMinutes    int64  `json:"delay_minutes"`
}

// NewOrderDelayed builds an OrderDelayed event for a rescheduled result.
// runID ties the event back to the reflow call that produced it.
func NewOrderDelayed(runID uuid.UUID, r Result) OrderDelayed {
	return OrderDelayed{
		BaseEvent:       shareddomain.NewBaseEvent(runID, AggregateType, RoutingKeyOrderDelayed),
		WorkOrderID:     string(r.WorkOrderID),
		WorkOrderNumber: r.WorkOrderNumber,
		DelayMinutes:    int64(r.NewStart.Sub(r.OriginalStart).Minutes()),
	}
}
