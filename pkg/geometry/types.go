// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point3D represents a 3D point with floating-point coordinates.
// Alignment geometry is planar; Z carries elevation and is preserved
// untouched by the planar operations below.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewPoint3D creates a new Point3D.
func NewPoint3D(x, y, z float64) Point3D {
	return Point3D{X: x, Y: y, Z: z}
}

// Distance returns the Euclidean distance to another point, ignoring Z.
func (p Point3D) Distance(other Point3D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two points.
func (p Point3D) Add(other Point3D) Point3D {
	return Point3D{X: p.X + other.X, Y: p.Y + other.Y, Z: p.Z + other.Z}
}

// Sub returns the difference of two points.
func (p Point3D) Sub(other Point3D) Point3D {
	return Point3D{X: p.X - other.X, Y: p.Y - other.Y, Z: p.Z - other.Z}
}

// Scale returns the point scaled by a factor.
func (p Point3D) Scale(factor float64) Point3D {
	return Point3D{X: p.X * factor, Y: p.Y * factor, Z: p.Z * factor}
}

// Length returns the planar magnitude of the point treated as a vector.
func (p Point3D) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Normalize returns the vector scaled to unit planar length.
// The zero vector is returned unchanged.
func (p Point3D) Normalize() Point3D {
	l := p.Length()
	if l == 0 {
		return p
	}
	return Point3D{X: p.X / l, Y: p.Y / l, Z: p.Z / l}
}

// Dot returns the planar dot product of two vectors.
func (p Point3D) Dot(other Point3D) float64 {
	return p.X*other.X + p.Y*other.Y
}

// RotateZ returns the point rotated about the Z axis by the given angle
// in radians, counterclockwise in the XY plane.
func (p Point3D) RotateZ(angle float64) Point3D {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Point3D{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
		Z: p.Z,
	}
}

// Lerp returns the point linearly interpolated toward other by t.
func (p Point3D) Lerp(other Point3D, t float64) Point3D {
	return Point3D{
		X: p.X + (other.X-p.X)*t,
		Y: p.Y + (other.Y-p.Y)*t,
		Z: p.Z + (other.Z-p.Z)*t,
	}
}

// Centroid computes the centroid (average position) of a set of points.
func Centroid(points []Point3D) Point3D {
	if len(points) == 0 {
		return Point3D{}
	}
	var sumX, sumY, sumZ float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumZ += p.Z
	}
	n := float64(len(points))
	return Point3D{X: sumX / n, Y: sumY / n, Z: sumZ / n}
}

// Rect represents a planar axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point3D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point3D {
	return Point3D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point3D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
