package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefan123292/schedule-reflow/internal/reflow/application"
	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
	"github.com/stefan123292/schedule-reflow/internal/reflow/engine"
)

type fakeCache struct {
	entries map[string]domain.Output
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]domain.Output{}} }

func (f *fakeCache) Get(_ context.Context, key string) (domain.Output, error) {
	out, ok := f.entries[key]
	if !ok {
		return domain.Output{}, assert.AnError
	}
	return out, nil
}

func (f *fakeCache) Set(_ context.Context, key string, out domain.Output, _ time.Duration) error {
	f.entries[key] = out
	return nil
}

type fakePublisher struct {
	events        []domain.ReflowCompleted
	delayedEvents []domain.OrderDelayed
}

func (f *fakePublisher) PublishReflowCompleted(_ context.Context, event domain.ReflowCompleted) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) PublishOrderDelayed(_ context.Context, event domain.OrderDelayed) error {
	f.delayedEvents = append(f.delayedEvents, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func weekdayCenter() domain.WorkCenter {
	return domain.WorkCenter{
		ID: "wc-1",
		Shifts: []domain.ShiftDefinition{
			{DayOfWeek: time.Monday, StartHour: 9, EndHour: 17},
		},
	}
}

func TestService_Reflow_PublishesOnFreshCall(t *testing.T) {
	c := newFakeCache()
	p := &fakePublisher{}
	svc := application.NewService(c, p, nil)

	orders := []domain.WorkOrder{{
		ID: "wo-1", Number: "WO-1", WorkCenterID: "wc-1",
		OriginalStart: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		OriginalEnd:   time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}}
	centers := []domain.WorkCenter{weekdayCenter()}
	cfg := engine.Config{Now: func() time.Time { return time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC) }}

	out, err := svc.Reflow(context.Background(), orders, centers, cfg)
	require.NoError(t, err)
	require.Len(t, out.Results, 1)
	require.Len(t, p.events, 1)
	assert.Equal(t, 1, p.events[0].TotalOrders)
}

func TestService_Reflow_CacheHitSkipsPublish(t *testing.T) {
	c := newFakeCache()
	p := &fakePublisher{}
	svc := application.NewService(c, p, nil)

	orders := []domain.WorkOrder{{
		ID: "wo-1", Number: "WO-1", WorkCenterID: "wc-1",
		OriginalStart: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		OriginalEnd:   time.Date(2024, 1, 15, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}}
	centers := []domain.WorkCenter{weekdayCenter()}
	cfg := engine.Config{Now: func() time.Time { return time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC) }}

	_, err := svc.Reflow(context.Background(), orders, centers, cfg)
	require.NoError(t, err)
	require.Len(t, p.events, 1)

	_, err = svc.Reflow(context.Background(), orders, centers, cfg)
	require.NoError(t, err)
	assert.Len(t, p.events, 1, "a cache hit must not publish a second completion event")
}

func TestService_Reflow_PublishesOrderDelayedForRescheduledOrders(t *testing.T) {
	c := newFakeCache()
	p := &fakePublisher{}
	svc := application.NewService(c, p, nil)

	// Saturday start with only a Monday shift forces a reschedule.
	orders := []domain.WorkOrder{{
		ID: "wo-1", Number: "WO-1", WorkCenterID: "wc-1",
		OriginalStart:   time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC),
		OriginalEnd:     time.Date(2024, 1, 13, 11, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}}
	centers := []domain.WorkCenter{weekdayCenter()}
	cfg := engine.Config{Now: func() time.Time { return time.Date(2024, 1, 13, 8, 0, 0, 0, time.UTC) }}

	out, err := svc.Reflow(context.Background(), orders, centers, cfg)
	require.NoError(t, err)
	require.True(t, out.Results[0].WasRescheduled)
	require.Len(t, p.delayedEvents, 1)
	assert.Equal(t, "wo-1", p.delayedEvents[0].WorkOrderID)
	assert.Positive(t, p.delayedEvents[0].DelayMinutes)
}
