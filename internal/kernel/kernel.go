// Package kernel solves horizontal curve geometry from partial input.
//
// The kernel is pure: solvers derive a complete curve description from a
// point of intersection (PI) plus one known parameter, and sampling
// functions regenerate display points on every call. No state is kept
// between calls, so identical inputs always produce identical output.
package kernel

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'kernel'
func tracer() tracing.Trace {
	return tracing.Select("kernel")
}

var (
	// ErrInfeasible indicates a solve whose implied tangents are not
	// strictly positive; the caller keeps its previous geometry.
	ErrInfeasible = errors.New("curve geometry is infeasible")
	// ErrUnknownRadius indicates a spiral solve where neither or both
	// radii were supplied as the known parameter.
	ErrUnknownRadius = errors.New("exactly one spiral radius must be known")
)

const epsilon = 1e-9
