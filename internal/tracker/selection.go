// Package tracker implements the interactive curve editing core: one
// CurveTracker per curve record mediates selection, drag transactions,
// re-solving through the geometry kernel, and chain feasibility checks.
package tracker

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'tracker'
func tracer() tracing.Trace {
	return tracing.Select("tracker")
}

// SelectionState is the selection status of a control point, and by
// aggregation of a whole curve.
type SelectionState int

const (
	Unselected SelectionState = iota
	Partial
	Selected
)

// String returns the display name of the selection state.
func (s SelectionState) String() string {
	switch s {
	case Unselected:
		return "UNSELECTED"
	case Partial:
		return "PARTIAL"
	case Selected:
		return "SELECTED"
	}
	return "INVALID"
}

// AggregateSelection derives a curve's selection state from its control
// point states: Selected when all points are selected, Partial when some
// are, Unselected otherwise. It is recomputed on every button event and
// never cached across events.
func AggregateSelection(states []SelectionState) SelectionState {
	if len(states) == 0 {
		return Unselected
	}
	all, any := true, false
	for _, s := range states {
		if s == Selected {
			any = true
		} else {
			all = false
		}
	}
	switch {
	case all:
		return Selected
	case any:
		return Partial
	}
	return Unselected
}
