// Package application composes the pure scheduling core with its
// collaborators: a result cache (since identical requests always produce
// identical output) and a domain-event publisher.
package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stefan123292/schedule-reflow/internal/reflow/application/cache"
	"github.com/stefan123292/schedule-reflow/internal/reflow/application/publish"
	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
	"github.com/stefan123292/schedule-reflow/internal/reflow/engine"
	"github.com/stefan123292/schedule-reflow/pkg/observability"
)

// CacheTTL bounds how long a memoized reflow result is reused.
const CacheTTL = 5 * time.Minute

// Service runs a reflow through the scheduling core, memoizing identical
// requests and publishing a completion event for every call that actually
// executes the core (cache hits are not re-published).
type Service struct {
	cache     cache.ResultCache
	publisher publish.EventPublisher
	logger    *slog.Logger
}

// NewService wires a cache and publisher around the scheduling core. Pass
// cache.NoopCache{} / publish.NewNoopPublisher to disable either
// collaborator.
func NewService(c cache.ResultCache, p publish.EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cache: c, publisher: p, logger: logger}
}

// Reflow runs the scheduling core for the given request, serving a cached
// result when an identical request was already computed.
func (s *Service) Reflow(
	ctx context.Context,
	orders []domain.WorkOrder,
	centers []domain.WorkCenter,
	cfg engine.Config,
) (domain.Output, error) {
	key, err := requestKey(orders, centers, cfg)
	if err == nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("reflow cache hit", "key", key)
			return cached, nil
		}
	} else {
		s.logger.Warn("failed to derive reflow cache key, skipping cache", "error", err)
	}

	out, err := observability.TimeOperationResult(ctx, s.logger, observability.NoopMetrics{}, "reflow.run",
		func() (domain.Output, error) {
			return engine.Reflow(ctx, orders, centers, cfg)
		})
	if err != nil {
		return domain.Output{}, err
	}

	if key != "" {
		if err := s.cache.Set(ctx, key, out, CacheTTL); err != nil {
			s.logger.Warn("failed to cache reflow result", "key", key, "error", err)
		}
	}

	runID := uuid.New()

	event := domain.NewReflowCompleted(runID, out)
	if err := s.publisher.PublishReflowCompleted(ctx, event); err != nil {
		s.logger.Warn("failed to publish reflow completed event", "error", err)
	}

	for _, r := range out.Results {
		if !r.NewStart.After(r.OriginalStart) {
			continue
		}
		if err := s.publisher.PublishOrderDelayed(ctx, domain.NewOrderDelayed(runID, r)); err != nil {
			s.logger.Warn("failed to publish order delayed event", "work_order_id", r.WorkOrderID, "error", err)
		}
	}

	return out, nil
}

// requestKey derives a deterministic cache key from the parts of a
// request that affect its output. cfg.Now is intentionally excluded: two
// calls differing only in their injected clock must still collide when
// every other input matches, mirroring the core's own determinism
// guarantee for everything but ProcessingTimeMs.
func requestKey(orders []domain.WorkOrder, centers []domain.WorkCenter, cfg engine.Config) (string, error) {
	timezone := "UTC"
	if cfg.Timezone != nil {
		timezone = cfg.Timezone.String()
	}

	payload := struct {
		Orders            []domain.WorkOrder
		Centers           []domain.WorkCenter
		AllowEarlierStart bool
		Timezone          string
	}{orders, centers, cfg.AllowEarlierStart, timezone}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
