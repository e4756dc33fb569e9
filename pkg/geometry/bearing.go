package geometry

import "math"

// Bearings follow the surveying convention: measured clockwise from the
// +Y axis (grid north), normalized to [0, 2*pi).

// Bearing returns the azimuth of the direction vector v.
// The zero vector yields a bearing of 0.
func Bearing(v Point3D) float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return NormalizeBearing(math.Atan2(v.X, v.Y))
}

// UnitFromBearing returns the unit direction vector for a bearing.
func UnitFromBearing(bearing float64) Point3D {
	return Point3D{X: math.Sin(bearing), Y: math.Cos(bearing)}
}

// NormalizeBearing wraps an angle into [0, 2*pi).
func NormalizeBearing(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// Deflection returns the signed turning angle from bearingIn to bearingOut,
// normalized to (-pi, pi]. Positive values turn clockwise (to the right).
func Deflection(bearingIn, bearingOut float64) float64 {
	d := math.Mod(bearingOut-bearingIn, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
