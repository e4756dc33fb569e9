package kernel

import (
	"fmt"
	"math"

	"alignment-editor/pkg/geometry"
)

// Spiral describes a solved clothoid transition between a tangent run and
// a circular curve. Exactly one of StartRadius/EndRadius is finite (the
// curved end); the other is +Inf, marking the flat (tangent) end.
type Spiral struct {
	PI          geometry.Point3D
	Start       geometry.Point3D
	End         geometry.Point3D
	BearingIn   float64
	BearingOut  float64
	StartRadius float64
	EndRadius   float64
	TanShort    float64 // tangent length at the curved end
	TanLong     float64 // tangent length at the flat end
	Length      float64
	Delta       float64 // signed deflection, positive clockwise
}

// CurvedAtStart reports whether the known (finite) radius sits at the
// spiral's start.
func (s Spiral) CurvedAtStart() bool {
	return !math.IsInf(s.StartRadius, 1)
}

// OrderedTangents returns the tangent lengths at the spiral's start and
// end, in that order. The long tangent belongs to the flat end.
func (s Spiral) OrderedTangents() (atStart, atEnd float64) {
	if s.CurvedAtStart() {
		return s.TanShort, s.TanLong
	}
	return s.TanLong, s.TanShort
}

// SolveSpiral solves the spiral of unknown length anchored at pi, with
// tangent legs toward start and end and one known radius. The unknown
// radius must be passed as math.Inf(1).
//
// The solve fails with ErrInfeasible when the deflection is degenerate or
// either implied tangent length is not strictly positive; callers are
// expected to keep their previous geometry in that case.
func SolveSpiral(pi, start, end geometry.Point3D, startRadius, endRadius float64) (Spiral, error) {
	startKnown := !math.IsInf(startRadius, 1)
	endKnown := !math.IsInf(endRadius, 1)
	if startKnown == endKnown {
		return Spiral{}, fmt.Errorf("%w: start=%v end=%v",
			ErrUnknownRadius, startRadius, endRadius)
	}

	radius := endRadius
	if startKnown {
		radius = startRadius
	}

	bearingIn := geometry.Bearing(pi.Sub(start))
	bearingOut := geometry.Bearing(end.Sub(pi))
	delta := geometry.Deflection(bearingIn, bearingOut)
	theta := math.Abs(delta)

	if theta < epsilon || theta >= math.Pi/2 || radius <= 0 {
		return Spiral{}, fmt.Errorf("%w: deflection %.6f radius %.4f",
			ErrInfeasible, theta, radius)
	}

	s := Spiral{
		PI:          pi,
		BearingIn:   bearingIn,
		BearingOut:  bearingOut,
		StartRadius: startRadius,
		EndRadius:   endRadius,
		Delta:       delta,
		Length:      2 * radius * theta,
	}

	// Clothoid end position in the flat-end tangent frame, by series
	// expansion in the total deflection.
	x := s.Length * (1 - theta*theta/10 + math.Pow(theta, 4)/216)
	y := s.Length * (theta/3 - math.Pow(theta, 3)/42 + math.Pow(theta, 5)/1320)

	s.TanLong = x - y/math.Tan(theta)
	s.TanShort = y / math.Sin(theta)

	if s.TanShort <= 0 || s.TanLong <= 0 ||
		math.IsNaN(s.TanShort) || math.IsNaN(s.TanLong) {
		return Spiral{}, fmt.Errorf("%w: tangents %.4f / %.4f",
			ErrInfeasible, s.TanShort, s.TanLong)
	}

	atStart, atEnd := s.OrderedTangents()
	s.Start = pi.Sub(geometry.UnitFromBearing(bearingIn).Scale(atStart))
	s.End = pi.Add(geometry.UnitFromBearing(bearingOut).Scale(atEnd))

	tracer().Debugf("spiral solve: theta=%.6f L=%.4f tans=%.4f/%.4f",
		theta, s.Length, s.TanShort, s.TanLong)

	return s, nil
}

// Points samples the spiral into segments+1 positions ordered from Start
// to End. A fresh slice is built on every call.
func (s Spiral) Points(segments int) []geometry.Point3D {
	if segments < 1 {
		segments = 1
	}

	theta := math.Abs(s.Delta)
	side := math.Copysign(math.Pi/2, s.Delta)

	// Sample outward from the flat end in its local tangent frame.
	var origin, far, dir, perp geometry.Point3D
	if s.CurvedAtStart() {
		origin, far = s.End, s.Start
		dir = geometry.UnitFromBearing(s.BearingOut + math.Pi)
		perp = geometry.UnitFromBearing(s.BearingOut + math.Pi - side)
	} else {
		origin, far = s.Start, s.End
		dir = geometry.UnitFromBearing(s.BearingIn)
		perp = geometry.UnitFromBearing(s.BearingIn + side)
	}

	pts := make([]geometry.Point3D, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		l := s.Length * t
		th := theta * t * t
		x := l * (1 - th*th/10 + math.Pow(th, 4)/216)
		y := l * (th/3 - math.Pow(th, 3)/42 + math.Pow(th, 5)/1320)
		p := origin.Add(dir.Scale(x)).Add(perp.Scale(y))
		p.Z = origin.Z + (far.Z-origin.Z)*t
		pts = append(pts, p)
	}

	if s.CurvedAtStart() {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	return pts
}
