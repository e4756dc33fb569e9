package tracker

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"alignment-editor/pkg/geometry"
)

// DragTransform is a planar homogeneous transform applied incrementally
// to the selected control points during a drag.
type DragTransform struct {
	m *mat.Dense
}

// IdentityTransform returns the identity drag transform.
func IdentityTransform() DragTransform {
	return DragTransform{m: mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})}
}

// TranslationTransform returns a pure translation by d.
func TranslationTransform(d geometry.Point3D) DragTransform {
	return DragTransform{m: mat.NewDense(3, 3, []float64{
		1, 0, d.X,
		0, 1, d.Y,
		0, 0, 1,
	})}
}

// RotationAboutTransform returns a rotation by angle radians (CCW in the
// XY plane) about the given center, used when the drag modifier requests
// rotation about the drag anchor.
func RotationAboutTransform(center geometry.Point3D, angle float64) DragTransform {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	rot := mat.NewDense(3, 3, []float64{
		cos, -sin, 0,
		sin, cos, 0,
		0, 0, 1,
	})

	var m mat.Dense
	m.Mul(TranslationTransform(center).m, rot)
	m.Mul(&m, TranslationTransform(center.Scale(-1)).m)
	return DragTransform{m: &m}
}

// Apply transforms a point, preserving its Z coordinate.
func (t DragTransform) Apply(p geometry.Point3D) geometry.Point3D {
	v := mat.NewVecDense(3, []float64{p.X, p.Y, 1})
	var out mat.VecDense
	out.MulVec(t.m, v)
	return geometry.Point3D{X: out.AtVec(0), Y: out.AtVec(1), Z: p.Z}
}

// Compose returns t followed by other.
func (t DragTransform) Compose(other DragTransform) DragTransform {
	var m mat.Dense
	m.Mul(other.m, t.m)
	return DragTransform{m: &m}
}
