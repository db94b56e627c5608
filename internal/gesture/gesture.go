package gesture

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInsufficientPoints is returned when a gesture has fewer than two points.
	ErrInsufficientPoints = errors.New("insufficient points")
	// ErrDegenerateGeometry is returned when a gesture has zero path length,
	// a zero-width or zero-height bounding box, or non-finite coordinates.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
	// ErrInvalidOptions is returned for out-of-range normalization parameters.
	ErrInvalidOptions = errors.New("invalid options")
)

// Gesture is a named, ordered sequence of points representing one stroke.
// A Gesture is never modified after construction; every transform returns a new one.
type Gesture struct {
	name   string
	points []Point
}

// New creates a Gesture from a copy of points.
func New(name string, points []Point) Gesture {
	return Gesture{name: name, points: slices.Clone(points)}
}

// Name returns the gesture name.
func (g Gesture) Name() string {
	return g.name
}

// Points returns a copy of the gesture's points.
func (g Gesture) Points() []Point {
	return slices.Clone(g.points)
}

// Len returns the number of points.
func (g Gesture) Len() int {
	return len(g.points)
}

// At returns the i-th point.
func (g Gesture) At(i int) Point {
	return g.points[i]
}

// PathLength returns the length of the stroke.
func (g Gesture) PathLength() float64 {
	return PathLength(g.points)
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns MaxX - MinX.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns MaxY - MinY.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// coords splits the points into separate x and y slices.
func (g Gesture) coords() (xs, ys []float64) {
	xs = make([]float64, len(g.points))
	ys = make([]float64, len(g.points))
	for i, p := range g.points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	return xs, ys
}

// Centroid returns the arithmetic mean of the points.
// An empty gesture has its centroid at the origin.
func (g Gesture) Centroid() Point {
	if len(g.points) == 0 {
		return Point{}
	}
	xs, ys := g.coords()
	n := float64(len(g.points))
	return Point{X: floats.Sum(xs) / n, Y: floats.Sum(ys) / n}
}

// BoundingBox returns the axis-aligned bounding box of the points.
func (g Gesture) BoundingBox() Rect {
	if len(g.points) == 0 {
		return Rect{}
	}
	xs, ys := g.coords()
	return Rect{
		MinX: floats.Min(xs),
		MinY: floats.Min(ys),
		MaxX: floats.Max(xs),
		MaxY: floats.Max(ys),
	}
}

// validate checks that the gesture has enough finite points to be normalized.
func (g Gesture) validate() error {
	if len(g.points) < 2 {
		return fmt.Errorf("gesture %q has %d points: %w", g.name, len(g.points), ErrInsufficientPoints)
	}
	for i, p := range g.points {
		if !isFinite(p) {
			return fmt.Errorf("gesture %q point %d is not finite: %w", g.name, i, ErrDegenerateGeometry)
		}
	}
	return nil
}

// RotateBy rotates every point by angle radians around the centroid.
func (g Gesture) RotateBy(angle float64) Gesture {
	c := g.Centroid()
	cos, sin := math.Cos(angle), math.Sin(angle)

	rotated := make([]Point, len(g.points))
	for i, p := range g.points {
		dx := p.X - c.X
		dy := p.Y - c.Y
		rotated[i] = Point{
			X: dx*cos - dy*sin + c.X,
			Y: dx*sin + dy*cos + c.Y,
		}
	}
	return Gesture{name: g.name, points: rotated}
}

// Resample returns a gesture with exactly n points spaced evenly by arc length
// along the original stroke.
func (g Gesture) Resample(n int) (Gesture, error) {
	if n < 2 {
		return Gesture{}, fmt.Errorf("resample to %d points: %w", n, ErrInvalidOptions)
	}
	if err := g.validate(); err != nil {
		return Gesture{}, err
	}

	length := PathLength(g.points)
	if length == 0 || math.IsInf(length, 0) {
		return Gesture{}, fmt.Errorf("gesture %q has path length %g: %w", g.name, length, ErrDegenerateGeometry)
	}
	interval := length / float64(n-1)

	// Interpolated points are inserted into work so the remainder of a
	// segment is reconsidered on the next step; g.points is never touched.
	work := slices.Clone(g.points)
	out := make([]Point, 1, n)
	out[0] = work[0]

	var acc float64
	for i := 1; i < len(work) && len(out) < n; i++ {
		d := Distance(work[i-1], work[i])
		if acc+d >= interval {
			q := lerp(work[i-1], work[i], (interval-acc)/d)
			out = append(out, q)
			work = slices.Insert(work, i, q)
			acc = 0
		} else {
			acc += d
		}
	}

	// The walk yields n-1 or n points depending on rounding at the end of
	// the stroke. Either way the last sample is the stroke's final point.
	last := g.points[len(g.points)-1]
	if len(out) == n {
		out[n-1] = last
	}
	for len(out) < n {
		out = append(out, last)
	}

	return Gesture{name: g.name, points: out}, nil
}

// ScaleToSquare stretches the gesture so its bounding box is size by size.
// Width and height are scaled independently.
func (g Gesture) ScaleToSquare(size float64) (Gesture, error) {
	if !(size > 0) || math.IsInf(size, 0) {
		return Gesture{}, fmt.Errorf("scale to square of size %g: %w", size, ErrInvalidOptions)
	}
	if err := g.validate(); err != nil {
		return Gesture{}, err
	}

	box := g.BoundingBox()
	width, height := box.Width(), box.Height()
	if width == 0 || height == 0 {
		return Gesture{}, fmt.Errorf("gesture %q has a %gx%g bounding box: %w", g.name, width, height, ErrDegenerateGeometry)
	}

	sx := size / width
	sy := size / height
	scaled := make([]Point, len(g.points))
	for i, p := range g.points {
		scaled[i] = Point{X: p.X * sx, Y: p.Y * sy}
	}
	return Gesture{name: g.name, points: scaled}, nil
}

// TranslateToOrigin moves the gesture so its centroid is (0, 0).
func (g Gesture) TranslateToOrigin() Gesture {
	c := g.Centroid()
	translated := make([]Point, len(g.points))
	for i, p := range g.points {
		translated[i] = Point{X: p.X - c.X, Y: p.Y - c.Y}
	}
	return Gesture{name: g.name, points: translated}
}
