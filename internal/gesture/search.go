package gesture

import (
	"fmt"
	"math"
)

// phi is the golden ratio conjugate used to place golden-section samples.
var phi = 0.5 * (math.Sqrt(5) - 1)

// maxSearchSteps bounds the golden-section loop. The bracket shrinks by phi
// each step, so a full circle reaches 1e-9 rad in about 50 steps.
const maxSearchSteps = 200

// AngleMatch is the outcome of a rotation search.
type AngleMatch struct {
	Angle    float64 // Rotation in radians applied to the candidate
	Distance float64 // Mean point distance at that rotation
}

// PathDistance returns the mean distance between index-aligned points of a and b.
// Both gestures must have the same, non-zero number of points.
func PathDistance(a, b Gesture) (float64, error) {
	if a.Len() != b.Len() {
		return 0, fmt.Errorf("compare %d points with %d points: %w", a.Len(), b.Len(), ErrInvalidOptions)
	}
	if a.Len() == 0 {
		return 0, fmt.Errorf("compare empty gestures: %w", ErrInsufficientPoints)
	}

	var sum float64
	for i := range a.points {
		sum += Distance(a.points[i], b.points[i])
	}
	return sum / float64(len(a.points)), nil
}

// DistanceAtBestAngle finds the rotation of candidate within [a, b] that
// minimizes its mean point distance to template, using golden-section search.
// The search stops once the bracket is no wider than precision, or after
// maxSearchSteps when precision is below what float64 can resolve. The distance
// function is assumed unimodal over [a, b].
func DistanceAtBestAngle(candidate, template Gesture, a, b, precision float64) (AngleMatch, error) {
	if !(precision > 0) {
		return AngleMatch{}, fmt.Errorf("search precision %g: %w", precision, ErrInvalidOptions)
	}
	if b < a {
		a, b = b, a
	}

	f := func(angle float64) (float64, error) {
		return PathDistance(candidate.RotateBy(angle), template)
	}

	x1 := phi*a + (1-phi)*b
	x2 := (1-phi)*a + phi*b
	f1, err := f(x1)
	if err != nil {
		return AngleMatch{}, err
	}
	f2, err := f(x2)
	if err != nil {
		return AngleMatch{}, err
	}

	// Lengths were checked by the first two evaluations.
	for i := 0; i < maxSearchSteps && math.Abs(b-a) > precision; i++ {
		if f1 < f2 {
			b = x2
			x2, f2 = x1, f1
			x1 = phi*a + (1-phi)*b
			f1, _ = f(x1)
		} else {
			a = x1
			x1, f1 = x2, f2
			x2 = (1-phi)*a + phi*b
			f2, _ = f(x2)
		}
	}

	if f1 < f2 {
		return AngleMatch{Angle: x1, Distance: f1}, nil
	}
	return AngleMatch{Angle: x2, Distance: f2}, nil
}
