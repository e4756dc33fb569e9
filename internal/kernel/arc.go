package kernel

import (
	"math"

	"alignment-editor/pkg/geometry"
)

// Arc describes a solved constant-radius circular curve.
type Arc struct {
	PI         geometry.Point3D
	Start      geometry.Point3D
	End        geometry.Point3D
	Center     geometry.Point3D
	BearingIn  float64
	BearingOut float64
	Radius     float64
	Tangent    float64
	Delta      float64 // signed deflection, positive clockwise
	Length     float64
}

// SolveArc derives the full arc geometry from the two tangent bearings,
// the PI position, and the radius. A solve with finite, non-parallel
// bearings always succeeds; parallel bearings degenerate to a zero-length
// curve anchored at the PI.
func SolveArc(bearingIn, bearingOut float64, pi geometry.Point3D, radius float64) Arc {
	delta := geometry.Deflection(bearingIn, bearingOut)

	arc := Arc{
		PI:         pi,
		BearingIn:  bearingIn,
		BearingOut: bearingOut,
		Radius:     radius,
		Delta:      delta,
	}

	if math.Abs(delta) < epsilon {
		arc.Start = pi
		arc.End = pi
		arc.Center = pi
		return arc
	}

	arc.Tangent = radius * math.Tan(math.Abs(delta)/2)
	arc.Length = radius * math.Abs(delta)
	arc.Start = pi.Sub(geometry.UnitFromBearing(bearingIn).Scale(arc.Tangent))
	arc.End = pi.Add(geometry.UnitFromBearing(bearingOut).Scale(arc.Tangent))

	// Center sits perpendicular to the incoming tangent, on the side
	// the curve turns toward.
	side := math.Copysign(math.Pi/2, delta)
	arc.Center = arc.Start.Add(
		geometry.UnitFromBearing(bearingIn + side).Scale(radius))

	tracer().Debugf("arc solve: delta=%.6f tangent=%.4f length=%.4f",
		delta, arc.Tangent, arc.Length)

	return arc
}

// Points samples the arc into segments+1 positions from Start to End.
// A fresh slice is built on every call.
func (a Arc) Points(segments int) []geometry.Point3D {
	if segments < 1 {
		segments = 1
	}
	pts := make([]geometry.Point3D, 0, segments+1)

	if math.Abs(a.Delta) < epsilon {
		pts = append(pts, a.Start, a.End)
		return pts
	}

	radial := a.Start.Sub(a.Center)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		// Clockwise deflection sweeps negative in the CCW-positive XY frame.
		p := a.Center.Add(radial.RotateZ(-a.Delta * t))
		p.Z = a.Start.Z + (a.End.Z-a.Start.Z)*t
		pts = append(pts, p)
	}
	return pts
}
