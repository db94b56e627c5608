// Package catalog provides the built-in unistroke templates used to seed an
// empty template store.
package catalog

import (
	"math"

	"github.com/ayusman/unistroke/internal/gesture"
)

// Template names in the built-in catalog.
const (
	Circle    = "circle"
	Triangle  = "triangle"
	Rectangle = "rectangle"
	Line      = "line"
	Check     = "check"
	Caret     = "caret"
	Zigzag    = "zigzag"
	Star      = "star"
)

// segmentStep is the spacing between generated points along polyline edges.
const segmentStep = 5.0

// Names returns the catalog template names in seeding order.
func Names() []string {
	return []string{Circle, Triangle, Rectangle, Line, Check, Caret, Zigzag, Star}
}

// Templates returns every catalog stroke as a raw gesture.
func Templates() []gesture.Gesture {
	names := Names()
	templates := make([]gesture.Gesture, 0, len(names))
	for _, name := range names {
		templates = append(templates, gesture.New(name, Points(name)))
	}
	return templates
}

// Points returns the raw stroke for a catalog name, or nil if unknown.
func Points(name string) []gesture.Point {
	switch name {
	case Circle:
		return CirclePoints(100, 100, 80, 128)
	case Triangle:
		return polyline([]gesture.Point{{X: 0, Y: 100}, {X: 50, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}})
	case Rectangle:
		return polyline([]gesture.Point{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 150, Y: 100}, {X: 150, Y: 0}, {X: 0, Y: 0}})
	case Line:
		return polyline([]gesture.Point{{X: 0, Y: 0}, {X: 200, Y: 150}})
	case Check:
		return polyline([]gesture.Point{{X: 0, Y: 50}, {X: 30, Y: 100}, {X: 100, Y: 0}})
	case Caret:
		return polyline([]gesture.Point{{X: 0, Y: 100}, {X: 50, Y: 0}, {X: 100, Y: 100}})
	case Zigzag:
		return polyline([]gesture.Point{{X: 0, Y: 0}, {X: 30, Y: 100}, {X: 60, Y: 0}, {X: 90, Y: 100}, {X: 120, Y: 0}})
	case Star:
		return polyline(starVertices(100, 100, 100))
	}
	return nil
}

// CirclePoints returns a closed counter-clockwise circle of n+1 points
// starting at angle 0; the last point repeats the first.
func CirclePoints(cx, cy, radius float64, n int) []gesture.Point {
	points := make([]gesture.Point, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		points[i] = gesture.Point{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)}
	}
	return points
}

// starVertices returns a five-pointed star drawn in one stroke, closed.
func starVertices(cx, cy, radius float64) []gesture.Point {
	vertices := make([]gesture.Point, 0, 6)
	for i := 0; i <= 5; i++ {
		// Each step skips one tip to trace the pentagram.
		a := -math.Pi/2 + float64(i*2%5)*2*math.Pi/5
		vertices = append(vertices, gesture.Point{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)})
	}
	return vertices
}

// polyline fills in points along each edge so that strokes resemble
// captured pointer input.
func polyline(vertices []gesture.Point) []gesture.Point {
	if len(vertices) == 0 {
		return nil
	}
	points := []gesture.Point{vertices[0]}
	for i := 1; i < len(vertices); i++ {
		a, b := vertices[i-1], vertices[i]
		steps := int(math.Ceil(gesture.Distance(a, b) / segmentStep))
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			points = append(points, gesture.Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)})
		}
	}
	return points
}

// Transform rotates points by angle radians about their centroid, scales
// them by factor about the centroid and then offsets them by (dx, dy).
func Transform(points []gesture.Point, angle, factor, dx, dy float64) []gesture.Point {
	g := gesture.New("", points).RotateBy(angle)
	c := g.Centroid()
	out := g.Points()
	for i, p := range out {
		out[i] = gesture.Point{
			X: c.X + (p.X-c.X)*factor + dx,
			Y: c.Y + (p.Y-c.Y)*factor + dy,
		}
	}
	return out
}
