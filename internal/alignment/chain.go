package alignment

import (
	"fmt"

	"alignment-editor/pkg/geometry"
)

// ControlPoint is a draggable PI position in the chain. The first and
// last points of a chain are fixed termini (IsEndNode); interior points
// are shared between the curves on either side.
type ControlPoint struct {
	Position  geometry.Point3D
	IsEndNode bool
}

// Chain is an ordered sequence of curve records connected by shared
// control points. Curve i is anchored at control point i+1 and runs its
// tangent legs toward control points i and i+2, so a chain of n curves
// carries n+2 control points.
type Chain struct {
	Points []*ControlPoint
	Curves []*Curve
}

// NewChain builds a chain from PI positions and curve records, marking
// the two termini as end nodes.
func NewChain(pis []geometry.Point3D, curves []*Curve) (*Chain, error) {
	if len(pis) != len(curves)+2 {
		return nil, fmt.Errorf("chain needs %d control points for %d curves, got %d",
			len(curves)+2, len(curves), len(pis))
	}

	ch := &Chain{Curves: curves}
	for i, p := range pis {
		ch.Points = append(ch.Points, &ControlPoint{
			Position:  p,
			IsEndNode: i == 0 || i == len(pis)-1,
		})
	}
	return ch, nil
}

// CurvePoints returns the three control points associated with curve i:
// the start leg anchor, the PI, and the end leg anchor.
func (ch *Chain) CurvePoints(i int) (start, pi, end *ControlPoint) {
	return ch.Points[i], ch.Points[i+1], ch.Points[i+2]
}

// CurvesTouching returns the indices of every curve whose three control
// points include control point j.
func (ch *Chain) CurvesTouching(j int) []int {
	var idx []int
	for i := j - 2; i <= j; i++ {
		if i >= 0 && i < len(ch.Curves) {
			idx = append(idx, i)
		}
	}
	return idx
}

// PIPositions returns the current control point positions in order.
func (ch *Chain) PIPositions() []geometry.Point3D {
	pts := make([]geometry.Point3D, len(ch.Points))
	for i, p := range ch.Points {
		pts[i] = p.Position
	}
	return pts
}
