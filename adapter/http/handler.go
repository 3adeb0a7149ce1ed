package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/stefan123292/schedule-reflow/internal/reflow/application"
	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
	"github.com/stefan123292/schedule-reflow/internal/reflow/engine"
	"github.com/stefan123292/schedule-reflow/internal/reflow/transport"
	"github.com/stefan123292/schedule-reflow/pkg/observability"
)

// ReflowHandler serves POST /reflow on top of application.Service.
type ReflowHandler struct {
	service *application.Service
	logger  *slog.Logger
	health  *observability.HealthRegistry
}

// NewReflowHandler builds a handler around an already-wired service. health
// may be nil, in which case /healthz always reports healthy.
func NewReflowHandler(service *application.Service, logger *slog.Logger, health *observability.HealthRegistry) *ReflowHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if health == nil {
		health = observability.NewHealthRegistry()
	}
	return &ReflowHandler{service: service, logger: logger, health: health}
}

func (h *ReflowHandler) HandleReflow(w http.ResponseWriter, r *http.Request) {
	ctx := observability.WithRequestID(r.Context(), r.Header.Get("X-Request-Id"))
	requestID := observability.RequestIDFromContext(ctx)
	w.Header().Set("X-Request-Id", requestID)

	var req transport.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "ValidationError", err.Error())
		return
	}

	cfg := engine.Config{AllowEarlierStart: req.AllowEarlierStart}
	if req.Timezone != "" {
		loc, err := time.LoadLocation(req.Timezone)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "ValidationError", "unknown timezone: "+req.Timezone)
			return
		}
		cfg.Timezone = loc
	}

	out, err := h.service.Reflow(
		ctx,
		transport.ToWorkOrders(req.WorkOrders),
		transport.ToWorkCenters(req.WorkCenters),
		cfg,
	)
	if err != nil {
		h.writeEngineError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "reflow request served",
		observability.RequestIDKey, requestID,
		"total_orders", out.Metadata.TotalOrders,
		"rescheduled_count", out.Metadata.RescheduledCount,
	)
	writeJSON(w, http.StatusOK, transport.FromOutput(out))
}

func (h *ReflowHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	overall := h.health.GetOverallHealth(r.Context())

	status := http.StatusOK
	if overall.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, overall)
}

func (h *ReflowHandler) writeEngineError(ctx context.Context, w http.ResponseWriter, err error) {
	var missingWC *domain.MissingWorkCenterError
	var missingDep *domain.MissingDependencyError
	var circular *domain.CircularDependencyError

	switch {
	case errors.As(err, &missingWC):
		h.writeError(w, http.StatusBadRequest, "MissingWorkCenterError", err.Error(),
			withWorkOrderID(string(missingWC.OrderID)), withWorkCenterID(string(missingWC.WorkCenterID)))
	case errors.As(err, &missingDep):
		h.writeError(w, http.StatusBadRequest, "MissingDependencyError", err.Error(),
			withWorkOrderID(string(missingDep.OrderID)), withMissingDependencyID(string(missingDep.DependencyID)))
	case errors.As(err, &circular):
		cycle := make([]string, 0, len(circular.Cycle))
		for _, id := range circular.Cycle {
			cycle = append(cycle, string(id))
		}
		h.writeError(w, http.StatusBadRequest, "CircularDependencyError", err.Error(), withCycle(cycle))
	case domain.IsNoWorkableSlot(err):
		h.writeError(w, http.StatusBadRequest, "NoWorkableSlotError", err.Error())
	default:
		h.logger.ErrorContext(ctx, "unexpected reflow error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "InternalError", "an unexpected error occurred")
	}
}

type errorOption func(*transport.ErrorResponse)

func withWorkOrderID(id string) errorOption {
	return func(r *transport.ErrorResponse) { r.WorkOrderID = id }
}

func withWorkCenterID(id string) errorOption {
	return func(r *transport.ErrorResponse) { r.WorkCenterID = id }
}

func withMissingDependencyID(id string) errorOption {
	return func(r *transport.ErrorResponse) { r.MissingDependencyID = id }
}

func withCycle(cycle []string) errorOption {
	return func(r *transport.ErrorResponse) { r.Cycle = cycle }
}

func (h *ReflowHandler) writeError(w http.ResponseWriter, status int, kind, message string, opts ...errorOption) {
	resp := transport.ErrorResponse{StatusCode: status, Error: kind, Message: message}
	for _, opt := range opts {
		opt(&resp)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}
