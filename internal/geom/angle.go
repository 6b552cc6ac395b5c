// ABOUTME: Pure angle math for disc rotation
// ABOUTME: Shortest-path angular interpolation independent of any render state
package geom

import "math"

// Lerp linearly interpolates between a and b by t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// NormalizeAngle maps an angle in radians into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// AngleDiff returns the signed shortest angular distance from a to b.
func AngleDiff(a, b float64) float64 {
	return NormalizeAngle(b - a)
}

// LerpAngle interpolates from a toward b by t along the shortest angular
// path, so blending across the ±π wrap never takes the long way around.
// The result is not normalized; it stays continuous with a.
func LerpAngle(a, b, t float64) float64 {
	return a + AngleDiff(a, b)*t
}
