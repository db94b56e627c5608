// Package app wires the template store to the gesture recognizer.
package app

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/ayusman/unistroke/internal/catalog"
	"github.com/ayusman/unistroke/internal/config"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/hook"
	"github.com/ayusman/unistroke/internal/store"
)

// ErrInvalidTemplate is returned when a template has no name or no points.
var ErrInvalidTemplate = errors.New("invalid template")

// Notifier is told about strokes recognized in a live session.
type Notifier interface {
	Notify(ev hook.Event)
}

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	Settings *config.Config
	Hooks    Notifier // Optional
}

// App owns the live recognizer and keeps it in sync with the store.
type App struct {
	config     Config
	effective  *config.Config
	recognizer *gesture.Recognizer
	// raw holds the ingested strokes when there is no store to reload from.
	raw []gesture.Gesture
	mu  sync.RWMutex
}

// New creates a new App with an empty recognizer.
// Call LoadTemplates to populate it from the store.
func New(cfg Config) *App {
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}

	r, err := gesture.NewRecognizer(cfg.Settings.RecognizerOptions(), nil)
	if err != nil {
		log.Printf("Invalid recognizer settings (%v), using defaults", err)
		r, _ = gesture.NewRecognizer(gesture.DefaultOptions(), nil)
	}

	return &App{
		config:     cfg,
		effective:  cfg.Settings,
		recognizer: r,
	}
}

// Recognizer returns the live recognizer.
func (a *App) Recognizer() *gesture.Recognizer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.recognizer
}

// Config returns the configuration in effect, including stored overrides.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.effective
}

// Store returns the backing store, which may be nil.
func (a *App) Store() *store.Store {
	return a.config.Store
}

// LoadTemplates rebuilds the recognizer from the stored templates and
// settings. Templates that cannot be normalized are skipped.
func (a *App) LoadTemplates() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reload()
}

// reload must be called with a.mu held.
func (a *App) reload() error {
	if a.config.Store == nil {
		return nil
	}

	effective := a.config.Settings
	overrides, err := a.config.Store.Settings().All()
	if err != nil {
		return err
	}
	if len(overrides) > 0 {
		applied, err := a.config.Settings.ApplySettings(overrides)
		if err != nil {
			log.Printf("Ignoring stored settings: %v", err)
		} else {
			effective = applied
		}
	}

	r, err := gesture.NewRecognizer(effective.RecognizerOptions(), nil)
	if err != nil {
		return err
	}

	templates, err := a.config.Store.Templates().List()
	if err != nil {
		return err
	}

	for _, t := range templates {
		if err := r.AddTemplate(gesture.New(t.Name, fromStorePoints(t.Points))); err != nil {
			log.Printf("Skipping template %s (%s): %v", t.Name, t.ID, err)
		}
	}

	a.recognizer = r
	a.effective = effective
	log.Printf("Loaded %d of %d templates from database", r.Len(), len(templates))
	return nil
}

// Seed adds the built-in catalog when the store holds no templates.
// It returns the number of templates added.
func (a *App) Seed() (int, error) {
	if a.config.Store == nil {
		return 0, nil
	}

	count, err := a.config.Store.Templates().Count()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	report := a.Import(catalog.Templates())
	if len(report.Skipped) > 0 {
		return report.Added, fmt.Errorf("seed skipped %d templates: %s", len(report.Skipped), report.Skipped[0].Error)
	}
	return report.Added, nil
}

// AddTemplate validates and normalizes a raw stroke, persists it and appends
// it to the live recognizer.
func (a *App) AddTemplate(name string, points []gesture.Point) (*store.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: stroke has no points", ErrInvalidTemplate)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	g := gesture.New(name, points)
	if _, err := a.recognizer.Normalize(g); err != nil {
		return nil, err
	}

	t := &store.Template{
		ID:     uuid.New().String(),
		Name:   name,
		Points: toStorePoints(points),
	}
	if a.config.Store != nil {
		if err := a.config.Store.Templates().Create(t); err != nil {
			return nil, fmt.Errorf("failed to save template: %w", err)
		}
	}

	if err := a.recognizer.AddTemplate(g); err != nil {
		return nil, err
	}
	if a.config.Store == nil {
		a.raw = append(a.raw, g)
	}
	return t, nil
}

// ImportError describes a template that could not be imported.
type ImportError struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Error string `json:"error"`
}

// ImportReport summarizes an import.
type ImportReport struct {
	Added   int           `json:"added"`
	Skipped []ImportError `json:"skipped"`
}

// Import adds each raw gesture as a template. Malformed gestures are
// skipped and reported; they never affect templates already stored.
func (a *App) Import(gestures []gesture.Gesture) ImportReport {
	report := ImportReport{Skipped: []ImportError{}}
	for i, g := range gestures {
		if _, err := a.AddTemplate(g.Name(), g.Points()); err != nil {
			report.Skipped = append(report.Skipped, ImportError{Index: i, Name: g.Name(), Error: err.Error()})
			continue
		}
		report.Added++
	}
	return report
}

// RemoveTemplate deletes a stored template and rebuilds the recognizer.
func (a *App) RemoveTemplate(id string) error {
	if a.config.Store == nil {
		return store.ErrNotFound
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.config.Store.Templates().Delete(id); err != nil {
		return err
	}
	return a.reload()
}

// Templates returns the stored raw templates.
func (a *App) Templates() ([]*store.Template, error) {
	if a.config.Store == nil {
		return nil, nil
	}
	return a.config.Store.Templates().List()
}

// Template returns a stored raw template by ID.
func (a *App) Template(id string) (*store.Template, error) {
	if a.config.Store == nil {
		return nil, store.ErrNotFound
	}
	return a.config.Store.Templates().GetByID(id)
}

// Recognize matches a raw stroke against the live templates.
func (a *App) Recognize(points []gesture.Point) (gesture.Result, error) {
	return a.Recognizer().Recognize(gesture.New("input", points))
}

// Scores matches a raw stroke against every live template.
func (a *App) Scores(points []gesture.Point) ([]gesture.Result, error) {
	return a.Recognizer().Scores(gesture.New("input", points))
}

// Export returns the normalized templates of the live recognizer.
func (a *App) Export() []gesture.Gesture {
	return a.Recognizer().Templates()
}

// Settings returns the effective value of every runtime setting.
func (a *App) Settings() map[string]string {
	rc := a.Config().Recognizer
	return map[string]string{
		config.KeyNumPoints:         cast.ToString(rc.NumPoints),
		config.KeySquareSize:        cast.ToString(rc.SquareSize),
		config.KeyAngleRangeDeg:     cast.ToString(rc.AngleRangeDeg),
		config.KeyAnglePrecisionDeg: cast.ToString(rc.AnglePrecisionDeg),
	}
}

// SetSetting validates and stores a runtime override, then rebuilds the
// recognizer so the new parameters take effect.
func (a *App) SetSetting(key, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.Store == nil {
		// Overrides accumulate on the effective config and templates are
		// normalized again from their raw strokes.
		applied, err := a.effective.ApplySettings(map[string]string{key: value})
		if err != nil {
			return err
		}
		r, err := gesture.NewRecognizer(applied.RecognizerOptions(), a.raw)
		if err != nil {
			return err
		}
		a.recognizer = r
		a.effective = applied
		return nil
	}

	overrides, err := a.config.Store.Settings().All()
	if err != nil {
		return err
	}
	overrides[key] = value

	if _, err := a.config.Settings.ApplySettings(overrides); err != nil {
		return err
	}

	if err := a.config.Store.Settings().Set(key, value); err != nil {
		return err
	}
	return a.reload()
}

// toStorePoints converts gesture points to store points.
func toStorePoints(points []gesture.Point) []store.Point {
	out := make([]store.Point, len(points))
	for i, p := range points {
		out[i] = store.Point{X: p.X, Y: p.Y}
	}
	return out
}

// fromStorePoints converts store points to gesture points.
func fromStorePoints(points []store.Point) []gesture.Point {
	out := make([]gesture.Point, len(points))
	for i, p := range points {
		out[i] = gesture.Point{X: p.X, Y: p.Y}
	}
	return out
}
