package tracker

import (
	"math"

	"alignment-editor/internal/alignment"
	"alignment-editor/pkg/geometry"
)

// DragState is the in-progress, cancelable edit transaction spanning one
// or more adjacent curves. It snapshots everything needed to roll the
// chain back verbatim if the drag ends infeasible. Created on drag start,
// consumed on drag end, never persisted.
type DragState struct {
	Anchor   geometry.Point3D // world position at drag start
	Position geometry.Point3D // world position of the previous motion sample
	Curves   []int            // affected curve indices, ascending and contiguous
	NodeIdx  []int            // selected control point indices
	Multi    bool             // drag spans more than one curve
	Rotate   bool             // rotation-about-anchor mode armed for this drag

	snapCurves map[int]*alignment.Curve
	snapPoints []geometry.Point3D
}

// newDragState snapshots the affected range of the chain.
func newDragState(ch *alignment.Chain, anchor geometry.Point3D, selected []int, rotate bool) *DragState {
	touched := map[int]bool{}
	for _, j := range selected {
		for _, i := range ch.CurvesTouching(j) {
			touched[i] = true
		}
	}

	lo, hi := len(ch.Curves), -1
	for i := range touched {
		if i < lo {
			lo = i
		}
		if i > hi {
			hi = i
		}
	}

	d := &DragState{
		Anchor:     anchor,
		Position:   anchor,
		NodeIdx:    append([]int(nil), selected...),
		Rotate:     rotate,
		snapCurves: map[int]*alignment.Curve{},
		snapPoints: ch.PIPositions(),
	}
	for i := lo; i <= hi; i++ {
		d.Curves = append(d.Curves, i)
		d.snapCurves[i] = ch.Curves[i].Clone()
	}
	d.Multi = len(d.Curves) > 1
	return d
}

// Restore writes the pre-drag curve records and control point positions
// back into the chain, to exact representable precision.
func (d *DragState) Restore(ch *alignment.Chain) {
	for i, snap := range d.snapCurves {
		*ch.Curves[i] = *snap.Clone()
	}
	for j, pos := range d.snapPoints {
		ch.Points[j].Position = pos
	}
}

// Step returns the incremental transform from the previous motion sample
// to the current one and records the new position.
func (d *DragState) Step(pos geometry.Point3D) DragTransform {
	var t DragTransform
	if d.Rotate {
		prev := d.Position.Sub(d.Anchor)
		cur := pos.Sub(d.Anchor)
		t = RotationAboutTransform(d.Anchor, angleBetween(prev, cur))
	} else {
		t = TranslationTransform(pos.Sub(d.Position))
	}
	d.Position = pos
	return t
}

// angleBetween returns the signed CCW angle from a to b in the XY plane.
func angleBetween(a, b geometry.Point3D) float64 {
	if a.Length() == 0 || b.Length() == 0 {
		return 0
	}
	cross := a.X*b.Y - a.Y*b.X
	dot := a.Dot(b)
	return math.Atan2(cross, dot)
}
