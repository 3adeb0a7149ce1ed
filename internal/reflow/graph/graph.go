// Package graph builds the work-order dependency DAG used to decide
// processing order during a reflow, and detects the cycles and dangling
// references that make a reflow request invalid.
package graph

import (
	"sort"

	"github.com/stefan123292/schedule-reflow/internal/reflow/domain"
)

// Graph is an adjacency-list view over a set of work orders: edges point
// from an order to the orders it depends on.
type Graph struct {
	orders     map[domain.OrderID]domain.WorkOrder
	order      []domain.OrderID // insertion order, for deterministic iteration
	dependsOn  map[domain.OrderID][]domain.OrderID
	dependents map[domain.OrderID][]domain.OrderID
}

// Build constructs a Graph from a slice of work orders and validates that
// every declared dependency refers to an order present in the slice. It
// returns a *domain.MissingDependencyError for the first dangling
// reference found, in input order.
func Build(orders []domain.WorkOrder) (*Graph, error) {
	g := &Graph{
		orders:     make(map[domain.OrderID]domain.WorkOrder, len(orders)),
		order:      make([]domain.OrderID, 0, len(orders)),
		dependsOn:  make(map[domain.OrderID][]domain.OrderID, len(orders)),
		dependents: make(map[domain.OrderID][]domain.OrderID, len(orders)),
	}

	for _, o := range orders {
		g.orders[o.ID] = o
		g.order = append(g.order, o.ID)
	}

	for _, o := range orders {
		for _, dep := range o.DependsOn {
			if _, ok := g.orders[dep]; !ok {
				return nil, &domain.MissingDependencyError{OrderID: o.ID, DependencyID: dep}
			}
			g.dependsOn[o.ID] = append(g.dependsOn[o.ID], dep)
			g.dependents[dep] = append(g.dependents[dep], o.ID)
		}
	}

	return g, nil
}

// Order returns the work order for id.
func (g *Graph) Order(id domain.OrderID) (domain.WorkOrder, bool) {
	o, ok := g.orders[id]
	return o, ok
}

// DependsOn returns the ids that id directly depends on.
func (g *Graph) DependsOn(id domain.OrderID) []domain.OrderID {
	return g.dependsOn[id]
}

// Dependents returns the ids that directly depend on id.
func (g *Graph) Dependents(id domain.OrderID) []domain.OrderID {
	return g.dependents[id]
}

// TopologicalSort returns the work orders in an order where every order
// appears after everything it depends on. Among orders simultaneously
// ready for placement, ties break by (OriginalStart, ID) — the order the
// rest of the engine relies on to be deterministic across runs. It
// returns a *domain.CircularDependencyError, with a witness cycle, if the
// graph cannot be fully drained.
func (g *Graph) TopologicalSort() ([]domain.WorkOrder, error) {
	inDegree := make(map[domain.OrderID]int, len(g.order))
	for _, id := range g.order {
		inDegree[id] = len(g.dependsOn[id])
	}

	ready := make([]domain.OrderID, 0, len(g.order))
	for _, id := range g.order {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	sorted := make([]domain.WorkOrder, 0, len(g.order))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool {
			oi, oj := g.orders[ready[i]], g.orders[ready[j]]
			if !oi.OriginalStart.Equal(oj.OriginalStart) {
				return oi.OriginalStart.Before(oj.OriginalStart)
			}
			return oi.ID < oj.ID
		})

		next := ready[0]
		ready = ready[1:]
		sorted = append(sorted, g.orders[next])

		for _, dependent := range g.dependents[next] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	if len(sorted) != len(g.order) {
		cycle, _ := g.FindCycle()
		return nil, &domain.CircularDependencyError{Cycle: cycle}
	}

	return sorted, nil
}

// FindCycle returns a witness path for some cycle reachable in the graph,
// via depth-first search, or ok=false if the graph is acyclic. Read the
// returned path in order: it ends by re-encountering its first element.
func (g *Graph) FindCycle() ([]domain.OrderID, bool) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[domain.OrderID]int, len(g.order))
	var path []domain.OrderID

	var visit func(id domain.OrderID) []domain.OrderID
	visit = func(id domain.OrderID) []domain.OrderID {
		state[id] = visiting
		path = append(path, id)

		for _, dep := range g.dependsOn[id] {
			switch state[dep] {
			case visiting:
				start := indexOf(path, dep)
				cycle := append(append([]domain.OrderID{}, path[start:]...), dep)
				return cycle
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}

		path = path[:len(path)-1]
		state[id] = done
		return nil
	}

	for _, id := range g.order {
		if state[id] == unvisited {
			if cycle := visit(id); cycle != nil {
				return cycle, true
			}
		}
	}
	return nil, false
}

// TransitiveDependents returns every id, direct or indirect, that depends
// on id — the set of orders a delay to id could push back.
func (g *Graph) TransitiveDependents(id domain.OrderID) []domain.OrderID {
	return g.transitiveClosure(id, g.dependents)
}

// TransitiveDependencies returns every id, direct or indirect, that id
// depends on.
func (g *Graph) TransitiveDependencies(id domain.OrderID) []domain.OrderID {
	return g.transitiveClosure(id, g.dependsOn)
}

func (g *Graph) transitiveClosure(id domain.OrderID, edges map[domain.OrderID][]domain.OrderID) []domain.OrderID {
	visited := make(map[domain.OrderID]bool)
	var out []domain.OrderID

	var walk func(domain.OrderID)
	walk = func(cur domain.OrderID) {
		for _, next := range edges[cur] {
			if !visited[next] {
				visited[next] = true
				out = append(out, next)
				walk(next)
			}
		}
	}
	walk(id)
	return out
}

func indexOf(path []domain.OrderID, id domain.OrderID) int {
	for i, p := range path {
		if p == id {
			return i
		}
	}
	return -1
}
