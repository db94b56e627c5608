// Package gesture provides single-stroke gesture normalization and recognition.
//
// Strokes are resampled to a fixed number of points, scaled to a square,
// translated so their centroid is the origin and then compared index by index
// against stored templates at the rotation that minimizes their distance.
package gesture

import "math"

// Point represents a 2D coordinate on a stroke.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points.
func Distance(p1, p2 Point) float64 {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PathLength returns the summed distance between consecutive points.
// Sequences with fewer than two points have length 0.
func PathLength(points []Point) float64 {
	var length float64
	for i := 1; i < len(points); i++ {
		length += Distance(points[i-1], points[i])
	}
	return length
}

// lerp returns the point at fraction t along the segment from a to b.
func lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + t*(b.X-a.X),
		Y: a.Y + t*(b.Y-a.Y),
	}
}

func isFinite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
