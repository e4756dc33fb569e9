// Package alignment models a horizontal alignment: a chain of tangent
// runs joined by curves, each anchored at a point of intersection (PI).
package alignment

import (
	"fmt"
	"math"

	"alignment-editor/internal/kernel"
	"alignment-editor/pkg/geometry"
)

// CurveType tags the variant of a Curve record.
type CurveType int

const (
	CurveArc CurveType = iota
	CurveSpiral
)

// String returns the display name of the curve type.
func (t CurveType) String() string {
	switch t {
	case CurveArc:
		return "Arc"
	case CurveSpiral:
		return "Spiral"
	}
	return fmt.Sprintf("CurveType(%d)", int(t))
}

// Curve is the record for one curve segment. It is a tagged union over
// {Arc, Spiral}: the Type field selects which of the variant fields are
// meaningful. For spirals, exactly one of StartRadius/EndRadius is the
// known input of a solve; the unknown one is math.Inf(1).
type Curve struct {
	Type CurveType

	PI         geometry.Point3D
	Start      geometry.Point3D
	End        geometry.Point3D
	BearingIn  float64
	BearingOut float64
	Delta      float64
	Length     float64

	// Arc fields
	Radius  float64
	Tangent float64
	Center  geometry.Point3D

	// Spiral fields
	StartRadius float64
	EndRadius   float64
	TanShort    float64
	TanLong     float64

	// Cached display samples, regenerated after every solve.
	Points []geometry.Point3D
}

// Clone returns a deep copy of the curve record.
func (c *Curve) Clone() *Curve {
	dup := *c
	if c.Points != nil {
		dup.Points = make([]geometry.Point3D, len(c.Points))
		copy(dup.Points, c.Points)
	}
	return &dup
}

// TangentAtStart returns the tangent length on the curve's incoming side.
// Panics on an unrecognized curve type: that is a programming error, not
// recoverable input.
func (c *Curve) TangentAtStart() float64 {
	switch c.Type {
	case CurveArc:
		return c.Tangent
	case CurveSpiral:
		atStart, _ := c.orderedTangents()
		return atStart
	}
	panic("alignment: unrecognized curve type " + c.Type.String())
}

// TangentAtEnd returns the tangent length on the curve's outgoing side.
func (c *Curve) TangentAtEnd() float64 {
	switch c.Type {
	case CurveArc:
		return c.Tangent
	case CurveSpiral:
		_, atEnd := c.orderedTangents()
		return atEnd
	}
	panic("alignment: unrecognized curve type " + c.Type.String())
}

func (c *Curve) orderedTangents() (atStart, atEnd float64) {
	if !math.IsInf(c.StartRadius, 1) {
		return c.TanShort, c.TanLong
	}
	return c.TanLong, c.TanShort
}

// ApplyArc installs a solved arc into the record.
func (c *Curve) ApplyArc(a kernel.Arc) {
	c.PI = a.PI
	c.Start = a.Start
	c.End = a.End
	c.BearingIn = a.BearingIn
	c.BearingOut = a.BearingOut
	c.Delta = a.Delta
	c.Length = a.Length
	c.Radius = a.Radius
	c.Tangent = a.Tangent
	c.Center = a.Center
}

// ApplySpiral installs a solved spiral into the record.
func (c *Curve) ApplySpiral(s kernel.Spiral) {
	c.PI = s.PI
	c.Start = s.Start
	c.End = s.End
	c.BearingIn = s.BearingIn
	c.BearingOut = s.BearingOut
	c.Delta = s.Delta
	c.Length = s.Length
	c.StartRadius = s.StartRadius
	c.EndRadius = s.EndRadius
	c.TanShort = s.TanShort
	c.TanLong = s.TanLong
}
