package gesture

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrEmptyTemplateSet is returned when recognizing without any templates.
var ErrEmptyTemplateSet = errors.New("no templates to match against")

// Default normalization and search parameters.
const (
	DefaultNumPoints      = 64
	DefaultSquareSize     = 250.0
	DefaultAngleRange     = 45 * math.Pi / 180
	DefaultAnglePrecision = 2 * math.Pi / 180

	// MaxNumPoints caps the resampled length of a gesture.
	MaxNumPoints = 4096
	// MinAnglePrecision is the narrowest golden-section stopping width, radians.
	MinAnglePrecision = 1e-9
)

// Options controls how strokes are normalized and compared.
type Options struct {
	NumPoints      int     // Points per normalized gesture
	SquareSize     float64 // Side of the square gestures are scaled to
	AngleRange     float64 // Rotation searched in [-AngleRange, AngleRange], radians
	AnglePrecision float64 // Golden-section stopping width, radians
}

// DefaultOptions returns the standard unistroke parameters.
func DefaultOptions() Options {
	return Options{
		NumPoints:      DefaultNumPoints,
		SquareSize:     DefaultSquareSize,
		AngleRange:     DefaultAngleRange,
		AnglePrecision: DefaultAnglePrecision,
	}
}

// Validate reports whether the options can be used for recognition.
func (o Options) Validate() error {
	switch {
	case o.NumPoints < 2 || o.NumPoints > MaxNumPoints:
		return fmt.Errorf("num points %d must be within [2, %d]: %w", o.NumPoints, MaxNumPoints, ErrInvalidOptions)
	case !(o.SquareSize > 0) || math.IsInf(o.SquareSize, 0):
		return fmt.Errorf("square size %g must be positive: %w", o.SquareSize, ErrInvalidOptions)
	case o.AngleRange < 0 || o.AngleRange > math.Pi || math.IsNaN(o.AngleRange):
		return fmt.Errorf("angle range %g must be within [0, pi]: %w", o.AngleRange, ErrInvalidOptions)
	case !(o.AnglePrecision >= MinAnglePrecision) || math.IsInf(o.AnglePrecision, 0):
		return fmt.Errorf("angle precision %g must be at least %g: %w", o.AnglePrecision, MinAnglePrecision, ErrInvalidOptions)
	}
	return nil
}

// Result is the outcome of matching a stroke against one template.
type Result struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"` // Mean distance divided by point count, lower is better
	Angle float64 `json:"angle"` // Best rotation in radians
}

// Recognizer matches strokes against a set of normalized templates.
// It is safe for concurrent use.
type Recognizer struct {
	opts      Options
	templates []Gesture
	mu        sync.RWMutex
}

// NewRecognizer normalizes the raw templates and returns a Recognizer holding them.
// It fails on the first template that cannot be normalized.
func NewRecognizer(opts Options, raw []Gesture) (*Recognizer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	r := &Recognizer{
		opts:      opts,
		templates: make([]Gesture, 0, len(raw)),
	}
	for i, g := range raw {
		normalized, err := r.Normalize(g)
		if err != nil {
			return nil, fmt.Errorf("template %d (%q): %w", i, g.Name(), err)
		}
		r.templates = append(r.templates, normalized)
	}
	return r, nil
}

// Options returns the recognizer's parameters.
func (r *Recognizer) Options() Options {
	return r.opts
}

// Normalize resamples, scales and translates g the way templates are stored.
func (r *Recognizer) Normalize(g Gesture) (Gesture, error) {
	resampled, err := g.Resample(r.opts.NumPoints)
	if err != nil {
		return Gesture{}, err
	}
	scaled, err := resampled.ScaleToSquare(r.opts.SquareSize)
	if err != nil {
		return Gesture{}, err
	}
	return scaled.TranslateToOrigin(), nil
}

// AddTemplate normalizes g and appends it to the template set.
// The template set is left unchanged when g cannot be normalized.
func (r *Recognizer) AddTemplate(g Gesture) error {
	normalized, err := r.Normalize(g)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates = append(r.templates, normalized)
	return nil
}

// Len returns the number of templates.
func (r *Recognizer) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Templates returns the normalized templates in insertion order.
func (r *Recognizer) Templates() []Gesture {
	r.mu.RLock()
	defer r.mu.RUnlock()
	templates := make([]Gesture, len(r.templates))
	copy(templates, r.templates)
	return templates
}

// Recognize returns the template that best matches g.
// On equal scores the earlier template wins.
func (r *Recognizer) Recognize(g Gesture) (Result, error) {
	scores, err := r.Scores(g)
	if err != nil {
		return Result{}, err
	}

	best := Result{Score: math.Inf(1)}
	for _, s := range scores {
		if s.Score < best.Score {
			best = s
		}
	}
	return best, nil
}

// Scores matches g against every template and returns the results in
// template order.
func (r *Recognizer) Scores(g Gesture) ([]Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.templates) == 0 {
		return nil, ErrEmptyTemplateSet
	}

	candidate, err := r.Normalize(g)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(r.templates))
	for _, t := range r.templates {
		match, err := DistanceAtBestAngle(candidate, t, -r.opts.AngleRange, r.opts.AngleRange, r.opts.AnglePrecision)
		if err != nil {
			return nil, fmt.Errorf("match template %q: %w", t.Name(), err)
		}
		results = append(results, Result{
			Name:  t.Name(),
			Score: match.Distance / float64(r.opts.NumPoints),
			Angle: match.Angle,
		})
	}
	return results, nil
}
