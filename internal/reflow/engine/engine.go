// Package engine drives the topologically ordered work orders through the
// calendar engine, maintaining per-machine availability and per-order end
// times, and assembling the final reflow output.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/stefan123292/schedule-reflow/internal/reflow/calendar"
	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
	"github.com/stefan123292/schedule-reflow/internal/reflow/graph"
)

// Reflow computes a new start/end time for every work order, honoring
// dependencies, shifts, maintenance windows, and per-machine capacity. It
// is a pure function of its arguments: no state survives the call, and
// (aside from cfg.Now, when invoked) no ambient I/O occurs.
//
// A single error aborts the whole reflow: work-center validation, graph
// construction (dangling dependency), topological sort (cycle), and the
// calendar engine (exhausted search horizon) can each fail fatally.
func Reflow(
	ctx context.Context,
	orders []domain.WorkOrder,
	centers []domain.WorkCenter,
	cfg Config,
) (domain.Output, error) {
	cfg = cfg.resolve()
	started := cfg.Now()

	centerByID := make(map[domain.WorkCenterID]domain.WorkCenter, len(centers))
	for _, c := range centers {
		centerByID[c.ID] = c
	}
	for _, o := range orders {
		if _, ok := centerByID[o.WorkCenterID]; !ok {
			return domain.Output{}, &domain.MissingWorkCenterError{OrderID: o.ID, WorkCenterID: o.WorkCenterID}
		}
	}

	g, err := graph.Build(orders)
	if err != nil {
		return domain.Output{}, err
	}

	ordered, err := g.TopologicalSort()
	if err != nil {
		return domain.Output{}, err
	}

	machineAvailability := make(map[domain.WorkCenterID]time.Time, len(centers))
	orderEnd := make(map[domain.OrderID]time.Time, len(orders))
	inputIndex := make(map[domain.OrderID]int, len(orders))
	for i, o := range orders {
		inputIndex[o.ID] = i
	}

	results := make([]domain.Result, 0, len(ordered))
	var warnings []string

	for _, order := range ordered {
		wc := centerByID[order.WorkCenterID]

		var result domain.Result
		var newEnd time.Time

		if order.IsMaintenance {
			result = domain.Result{
				NewStart:       order.OriginalStart,
				NewEnd:         order.OriginalEnd,
				IsFixed:        true,
				WasRescheduled: false,
			}
			newEnd = order.OriginalEnd
			if current, ok := machineAvailability[order.WorkCenterID]; !ok || order.OriginalEnd.After(current) {
				machineAvailability[order.WorkCenterID] = order.OriginalEnd
			}
		} else {
			earliestStart, hasConstraint := earliestStartFor(order, cfg, machineAvailability, orderEnd)
			if !hasConstraint {
				earliestStart = cfg.Now()
			}

			validStart, err := calendar.FindEarliestValidStart(earliestStart, wc, cfg.Timezone)
			if err != nil {
				return domain.Output{}, err
			}
			newEnd, err = calendar.CalculateEndDateWithShifts(validStart, order.DurationMinutes, wc, cfg.Timezone)
			if err != nil {
				return domain.Output{}, err
			}

			result = domain.Result{
				NewStart: validStart,
				NewEnd:   newEnd,
				IsFixed:  false,
				WasRescheduled: !validStart.Equal(order.OriginalStart) ||
					!newEnd.Equal(order.OriginalEnd),
			}

			machineAvailability[order.WorkCenterID] = newEnd
			if validStart.After(order.OriginalStart) {
				minutes := int(validStart.Sub(order.OriginalStart).Minutes())
				warnings = append(warnings, fmt.Sprintf(
					"Work order %s delayed by %d minutes", order.Number, minutes,
				))
			}
		}

		orderEnd[order.ID] = newEnd
		result.WorkOrderID = order.ID
		result.WorkOrderNumber = order.Number
		result.OriginalStart = order.OriginalStart
		result.OriginalEnd = order.OriginalEnd
		result.InputIndex = inputIndex[order.ID]
		results = append(results, result)
	}

	var rescheduledCount, fixedCount int
	for _, r := range results {
		if r.WasRescheduled {
			rescheduledCount++
		}
		if r.IsFixed {
			fixedCount++
		}
	}

	return domain.Output{
		Results:  results,
		Warnings: warnings,
		Metadata: domain.Metadata{
			TotalOrders:      len(orders),
			RescheduledCount: rescheduledCount,
			FixedCount:       fixedCount,
			ProcessingTimeMs: cfg.Now().Sub(started).Milliseconds(),
		},
	}, nil
}

// earliestStartFor computes the max of the constraints that apply to
// order: the original start unless earlier starts are
// allowed, the order's work center's next-free instant if known, and the
// end time of every declared dependency. hasConstraint is false only when
// none of these apply, in which case the caller falls back to cfg.Now().
func earliestStartFor(
	order domain.WorkOrder,
	cfg Config,
	machineAvailability map[domain.WorkCenterID]time.Time,
	orderEnd map[domain.OrderID]time.Time,
) (time.Time, bool) {
	var (
		max  time.Time
		have bool
	)
	consider := func(t time.Time) {
		if !have || t.After(max) {
			max = t
			have = true
		}
	}

	if !cfg.AllowEarlierStart {
		consider(order.OriginalStart)
	}
	if t, ok := machineAvailability[order.WorkCenterID]; ok {
		consider(t)
	}
	for _, dep := range order.DependsOn {
		if t, ok := orderEnd[dep]; ok {
			consider(t)
		}
	}

	return max, have
}
