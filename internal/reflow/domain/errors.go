package domain

import (
	"errors"
	"fmt"
)

// ErrNoWorkableSlot is returned when the calendar engine exhausts its
// search horizon (30 days for a slot, 365 days for a duration walk)
// without finding a workable instant. Fatal to the current reflow.
var ErrNoWorkableSlot = errors.New("no workable slot found within search horizon")

// MissingWorkCenterError is returned when an order references a work
// center id that was not supplied to the reflow call.
type MissingWorkCenterError struct {
	OrderID      OrderID
	WorkCenterID WorkCenterID
}

func (e *MissingWorkCenterError) Error() string {
	return fmt.Sprintf("work order %q references unknown work center %q", e.OrderID, e.WorkCenterID)
}

// MissingDependencyError is returned when an order declares a dependency
// on an order id that was not supplied to the reflow call.
type MissingDependencyError struct {
	OrderID      OrderID
	DependencyID OrderID
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("work order %q depends on unknown work order %q", e.OrderID, e.DependencyID)
}

// CircularDependencyError is returned when the dependency graph cannot be
// fully drained by topological sort. Cycle is a witness path — read in
// order, it re-encounters its first id.
type CircularDependencyError struct {
	Cycle []OrderID
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency detected: %v", e.Cycle)
}

// IsMissingWorkCenter reports whether err is a *MissingWorkCenterError.
func IsMissingWorkCenter(err error) bool {
	var target *MissingWorkCenterError
	return errors.As(err, &target)
}

// IsMissingDependency reports whether err is a *MissingDependencyError.
func IsMissingDependency(err error) bool {
	var target *MissingDependencyError
	return errors.As(err, &target)
}

// IsCircularDependency reports whether err is a *CircularDependencyError.
func IsCircularDependency(err error) bool {
	var target *CircularDependencyError
	return errors.As(err, &target)
}

// IsNoWorkableSlot reports whether err is ErrNoWorkableSlot.
func IsNoWorkableSlot(err error) bool {
	return errors.Is(err, ErrNoWorkableSlot)
}
