// Package render rasterizes gesture strokes to images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/unistroke/internal/gesture"
)

var (
	strokeColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	startColor  = color.RGBA{R: 200, G: 40, B: 40, A: 255}
)

// Options controls the rendered image.
type Options struct {
	Size      int // Width and height in pixels
	Thickness int // Stroke thickness in pixels
}

// DefaultOptions returns the default preview options.
func DefaultOptions() Options {
	return Options{Size: 256, Thickness: 4}
}

// PNG draws g centered on a white square canvas and returns it PNG-encoded.
// The stroke keeps its aspect ratio; its first point is marked.
func PNG(g gesture.Gesture, opts Options) ([]byte, error) {
	if g.Len() == 0 {
		return nil, fmt.Errorf("render %q: %w", g.Name(), gesture.ErrInsufficientPoints)
	}
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Thickness <= 0 {
		opts.Thickness = DefaultOptions().Thickness
	}

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), opts.Size, opts.Size, gocv.MatTypeCV8UC3)
	defer img.Close()

	pixels := fit(g, opts)
	for i := 1; i < len(pixels); i++ {
		gocv.Line(&img, pixels[i-1], pixels[i], strokeColor, opts.Thickness)
	}
	gocv.Circle(&img, pixels[0], opts.Thickness+2, startColor, -1)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", g.Name(), err)
	}
	defer buf.Close()

	// The native buffer is freed on Close, so hand out a copy.
	data := append([]byte(nil), buf.GetBytes()...)
	return data, nil
}

// fit maps the stroke into pixel space with a uniform scale and a margin
// proportional to the canvas size.
func fit(g gesture.Gesture, opts Options) []image.Point {
	margin := float64(opts.Size)/10 + float64(opts.Thickness)
	usable := float64(opts.Size) - 2*margin

	box := g.BoundingBox()
	extent := math.Max(box.Width(), box.Height())
	scale := 1.0
	if extent > 0 {
		scale = usable / extent
	}

	center := float64(opts.Size) / 2
	midX := (box.MinX + box.MaxX) / 2
	midY := (box.MinY + box.MaxY) / 2

	pixels := make([]image.Point, g.Len())
	for i := range pixels {
		p := g.At(i)
		pixels[i] = image.Pt(
			int(math.Round(center+(p.X-midX)*scale)),
			int(math.Round(center+(p.Y-midY)*scale)),
		)
	}
	return pixels
}
