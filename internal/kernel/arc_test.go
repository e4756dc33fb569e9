package kernel

import (
	"math"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"

	"alignment-editor/pkg/geometry"
)

func TestSolveArcRightAngle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	// North, then east: a 90 degree right turn at the origin, R=50.
	pi := geometry.Point3D{}
	arc := SolveArc(0, math.Pi/2, pi, 50)

	assert.InDelta(t, math.Pi/2, arc.Delta, 1e-12)
	assert.InDelta(t, 50, arc.Tangent, 1e-9, "T = R tan(delta/2)")
	assert.InDelta(t, 50*math.Pi/2, arc.Length, 1e-9)

	assert.InDelta(t, 0, arc.Start.X, 1e-9)
	assert.InDelta(t, -50, arc.Start.Y, 1e-9)
	assert.InDelta(t, 50, arc.End.X, 1e-9)
	assert.InDelta(t, 0, arc.End.Y, 1e-9)
	assert.InDelta(t, 50, arc.Center.X, 1e-9)
	assert.InDelta(t, -50, arc.Center.Y, 1e-9)
}

func TestSolveArcLeftTurnMirrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	pi := geometry.Point3D{}
	right := SolveArc(0, math.Pi/2, pi, 50)
	left := SolveArc(0, 3*math.Pi/2, pi, 50)

	assert.InDelta(t, -right.Delta, left.Delta, 1e-12)
	assert.InDelta(t, right.Tangent, left.Tangent, 1e-12)
	assert.InDelta(t, right.End.X, -left.End.X, 1e-9)
	assert.InDelta(t, right.Center.X, -left.Center.X, 1e-9)
}

func TestSolveArcDeterministic(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	pi := geometry.Point3D{X: 120, Y: 340}
	a := SolveArc(0.7, 1.9, pi, 275)
	b := SolveArc(0.7, 1.9, pi, 275)
	assert.Equal(t, a, b, "same inputs must solve bit-identically")
}

func TestSolveArcDegenerate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	pi := geometry.Point3D{X: 10, Y: 20}
	arc := SolveArc(1.1, 1.1, pi, 300)
	assert.Equal(t, 0.0, arc.Length)
	assert.Equal(t, pi, arc.Start)
	assert.Equal(t, pi, arc.End)

	pts := arc.Points(8)
	assert.Len(t, pts, 2)
}

func TestArcPointsLieOnCircle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	arc := SolveArc(0.3, 1.4, geometry.Point3D{X: 50, Y: 80}, 200)
	pts := arc.Points(32)
	assert.Len(t, pts, 33)
	assert.InDelta(t, 0, pts[0].Distance(arc.Start), 1e-9)
	assert.InDelta(t, 0, pts[len(pts)-1].Distance(arc.End), 1e-6)
	for _, p := range pts {
		assert.InDelta(t, 200, p.Distance(arc.Center), 1e-6)
	}
}
