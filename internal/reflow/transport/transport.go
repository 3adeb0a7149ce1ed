// Package transport holds the wire-format request/response/error shapes
// for the reflow scheduler and the conversions between them and the
// domain model. Both the HTTP and CLI adapters bind to these types so
// the wire format stays in one place.
package transport

import (
	"time"

	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
)

// Request is the POST /reflow request body.
type Request struct {
	WorkOrders        []WorkOrderDoc  `json:"workOrders"`
	WorkCenters       []WorkCenterDoc `json:"workCenters"`
	AllowEarlierStart bool            `json:"allowEarlierStart"`
	Timezone          string          `json:"timezone"`
}

type WorkOrderDoc struct {
	DocID string           `json:"docId"`
	Data  WorkOrderDocData `json:"data"`
}

type WorkOrderDocData struct {
	WorkOrderNumber       string    `json:"workOrderNumber"`
	WorkCenterID          string    `json:"workCenterId"`
	StartDate             time.Time `json:"startDate"`
	EndDate               time.Time `json:"endDate"`
	DurationMinutes       int       `json:"durationMinutes"`
	IsMaintenance         bool      `json:"isMaintenance"`
	DependsOnWorkOrderIDs []string  `json:"dependsOnWorkOrderIds"`
}

type WorkCenterDoc struct {
	DocID string            `json:"docId"`
	Data  WorkCenterDocData `json:"data"`
}

type WorkCenterDocData struct {
	Name               string           `json:"name"`
	Shifts             []ShiftDoc       `json:"shifts"`
	MaintenanceWindows []MaintenanceDoc `json:"maintenanceWindows"`
}

type ShiftDoc struct {
	DayOfWeek int `json:"dayOfWeek"`
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

type MaintenanceDoc struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    string    `json:"reason"`
}

// Response is the POST /reflow success response body.
type Response struct {
	Results  []ResultDoc `json:"results"`
	Warnings []string    `json:"warnings"`
	Metadata MetadataDoc `json:"metadata"`
}

type ResultDoc struct {
	WorkOrderID       string    `json:"workOrderId"`
	WorkOrderNumber   string    `json:"workOrderNumber"`
	OriginalStartDate time.Time `json:"originalStartDate"`
	OriginalEndDate   time.Time `json:"originalEndDate"`
	NewStartDate      time.Time `json:"newStartDate"`
	NewEndDate        time.Time `json:"newEndDate"`
	WasRescheduled    bool      `json:"wasRescheduled"`
	IsFixed           bool      `json:"isFixed"`
}

type MetadataDoc struct {
	TotalOrders      int   `json:"totalOrders"`
	RescheduledCount int   `json:"rescheduledCount"`
	FixedCount       int   `json:"fixedCount"`
	ProcessingTimeMs int64 `json:"processingTimeMs"`
}

// ErrorResponse is the POST /reflow 400 body.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`

	WorkOrderID         string   `json:"workOrderId,omitempty"`
	MissingDependencyID string   `json:"missingDependencyId,omitempty"`
	WorkCenterID        string   `json:"workCenterId,omitempty"`
	Cycle               []string `json:"cycle,omitempty"`
}

// ToWorkOrders converts the request's work order documents to domain
// work orders.
func ToWorkOrders(docs []WorkOrderDoc) []domain.WorkOrder {
	orders := make([]domain.WorkOrder, 0, len(docs))
	for _, d := range docs {
		deps := make([]domain.OrderID, 0, len(d.Data.DependsOnWorkOrderIDs))
		for _, id := range d.Data.DependsOnWorkOrderIDs {
			deps = append(deps, domain.OrderID(id))
		}
		orders = append(orders, domain.WorkOrder{
			ID:              domain.OrderID(d.DocID),
			Number:          d.Data.WorkOrderNumber,
			WorkCenterID:    domain.WorkCenterID(d.Data.WorkCenterID),
			OriginalStart:   d.Data.StartDate.UTC(),
			OriginalEnd:     d.Data.EndDate.UTC(),
			DurationMinutes: d.Data.DurationMinutes,
			IsMaintenance:   d.Data.IsMaintenance,
			DependsOn:       deps,
		})
	}
	return orders
}

// ToWorkCenters converts the request's work center documents to domain
// work centers.
func ToWorkCenters(docs []WorkCenterDoc) []domain.WorkCenter {
	centers := make([]domain.WorkCenter, 0, len(docs))
	for _, d := range docs {
		shifts := make([]domain.ShiftDefinition, 0, len(d.Data.Shifts))
		for _, s := range d.Data.Shifts {
			shifts = append(shifts, domain.ShiftDefinition{
				DayOfWeek: time.Weekday(s.DayOfWeek),
				StartHour: s.StartHour,
				EndHour:   s.EndHour,
			})
		}
		windows := make([]domain.MaintenanceWindow, 0, len(d.Data.MaintenanceWindows))
		for _, m := range d.Data.MaintenanceWindows {
			windows = append(windows, domain.MaintenanceWindow{
				Start:  m.StartDate.UTC(),
				End:    m.EndDate.UTC(),
				Reason: m.Reason,
			})
		}
		centers = append(centers, domain.WorkCenter{
			ID:                 domain.WorkCenterID(d.DocID),
			Name:               d.Data.Name,
			Shifts:             shifts,
			MaintenanceWindows: windows,
		})
	}
	return centers
}

// FromOutput converts a reflow output to its wire response shape.
func FromOutput(out domain.Output) Response {
	results := make([]ResultDoc, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, ResultDoc{
			WorkOrderID:       string(r.WorkOrderID),
			WorkOrderNumber:   r.WorkOrderNumber,
			OriginalStartDate: r.OriginalStart,
			OriginalEndDate:   r.OriginalEnd,
			NewStartDate:      r.NewStart,
			NewEndDate:        r.NewEnd,
			WasRescheduled:    r.WasRescheduled,
			IsFixed:           r.IsFixed,
		})
	}

	return Response{
		Results:  results,
		Warnings: out.Warnings,
		Metadata: MetadataDoc{
			TotalOrders:      out.Metadata.TotalOrders,
			RescheduledCount: out.Metadata.RescheduledCount,
			FixedCount:       out.Metadata.FixedCount,
			ProcessingTimeMs: out.Metadata.ProcessingTimeMs,
		},
	}
}
