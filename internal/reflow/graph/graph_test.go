package graph_test

import (
	"testing"
	"time"

	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
	"github.com/stefan123292/schedule-reflow/internal/reflow/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour int) time.Time {
	return time.Date(2024, 1, 15, hour, 0, 0, 0, time.UTC)
}

func TestBuild_MissingDependency(t *testing.T) {
	orders := []domain.WorkOrder{
		{ID: "wo-1", OriginalStart: at(9), DependsOn: []domain.OrderID{"wo-missing"}},
	}

	_, err := graph.Build(orders)
	require.Error(t, err)
	assert.True(t, domain.IsMissingDependency(err))
}

func TestTopologicalSort_RespectsDependencies(t *testing.T) {
	orders := []domain.WorkOrder{
		{ID: "wo-2", OriginalStart: at(9), DependsOn: []domain.OrderID{"wo-1"}},
		{ID: "wo-1", OriginalStart: at(9)},
	}

	g, err := graph.Build(orders)
	require.NoError(t, err)

	sorted, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, sorted, 2)
	assert.Equal(t, domain.OrderID("wo-1"), sorted[0].ID)
	assert.Equal(t, domain.OrderID("wo-2"), sorted[1].ID)
}

func TestTopologicalSort_TieBreaksByOriginalStartThenID(t *testing.T) {
	orders := []domain.WorkOrder{
		{ID: "wo-b", OriginalStart: at(9)},
		{ID: "wo-a", OriginalStart: at(9)},
		{ID: "wo-c", OriginalStart: at(8)},
	}

	g, err := graph.Build(orders)
	require.NoError(t, err)

	sorted, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, []domain.OrderID{"wo-c", "wo-a", "wo-b"}, []domain.OrderID{
		sorted[0].ID, sorted[1].ID, sorted[2].ID,
	})
}

func TestTopologicalSort_DetectsCycle(t *testing.T) {
	orders := []domain.WorkOrder{
		{ID: "wo-1", OriginalStart: at(9), DependsOn: []domain.OrderID{"wo-2"}},
		{ID: "wo-2", OriginalStart: at(9), DependsOn: []domain.OrderID{"wo-1"}},
	}

	g, err := graph.Build(orders)
	require.NoError(t, err)

	_, err = g.TopologicalSort()
	require.Error(t, err)
	assert.True(t, domain.IsCircularDependency(err))
}

func TestTransitiveDependentsAndDependencies(t *testing.T) {
	orders := []domain.WorkOrder{
		{ID: "wo-1", OriginalStart: at(9)},
		{ID: "wo-2", OriginalStart: at(9), DependsOn: []domain.OrderID{"wo-1"}},
		{ID: "wo-3", OriginalStart: at(9), DependsOn: []domain.OrderID{"wo-2"}},
	}

	g, err := graph.Build(orders)
	require.NoError(t, err)

	assert.ElementsMatch(t, []domain.OrderID{"wo-2", "wo-3"}, g.TransitiveDependents("wo-1"))
	assert.ElementsMatch(t, []domain.OrderID{"wo-1", "wo-2"}, g.TransitiveDependencies("wo-3"))
}
