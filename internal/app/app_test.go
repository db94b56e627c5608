package app

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/unistroke/internal/catalog"
	"github.com/ayusman/unistroke/internal/config"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/store"
)

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	a := New(Config{Store: s, Settings: config.Default()})
	require.NoError(t, a.LoadTemplates())
	return a, s
}

func TestApp_SeedAndRecognize(t *testing.T) {
	a, s := newTestApp(t)

	added, err := a.Seed()
	require.NoError(t, err)
	assert.Equal(t, len(catalog.Names()), added)
	assert.Equal(t, len(catalog.Names()), a.Recognizer().Len())

	count, err := s.Templates().Count()
	require.NoError(t, err)
	assert.Equal(t, len(catalog.Names()), count)

	// Seeding twice is a no-op
	added, err = a.Seed()
	require.NoError(t, err)
	assert.Zero(t, added)

	input := catalog.Transform(catalog.Points(catalog.Circle), 10*math.Pi/180, 0.5, 100, 100)
	res, err := a.Recognize(input)
	require.NoError(t, err)
	assert.Equal(t, catalog.Circle, res.Name)
}

func TestApp_LoadTemplatesFromStore(t *testing.T) {
	a, s := newTestApp(t)
	_, err := a.Seed()
	require.NoError(t, err)

	// A fresh app over the same store sees the same templates
	b := New(Config{Store: s, Settings: config.Default()})
	assert.Zero(t, b.Recognizer().Len())
	require.NoError(t, b.LoadTemplates())
	assert.Equal(t, a.Recognizer().Len(), b.Recognizer().Len())

	res, err := b.Recognize(catalog.Points(catalog.Triangle))
	require.NoError(t, err)
	assert.Equal(t, catalog.Triangle, res.Name)
}

func TestApp_LoadTemplates_SkipsMalformed(t *testing.T) {
	a, s := newTestApp(t)

	require.NoError(t, s.Templates().Create(&store.Template{
		ID:     "flat",
		Name:   "flat",
		Points: []store.Point{{X: 0, Y: 5}, {X: 10, Y: 5}, {X: 20, Y: 5}},
	}))
	require.NoError(t, s.Templates().Create(&store.Template{
		ID:     "tri",
		Name:   catalog.Triangle,
		Points: toStorePoints(catalog.Points(catalog.Triangle)),
	}))

	require.NoError(t, a.LoadTemplates())
	assert.Equal(t, 1, a.Recognizer().Len())
}

func TestApp_AddTemplate(t *testing.T) {
	a, s := newTestApp(t)

	tmpl, err := a.AddTemplate("  circle  ", catalog.Points(catalog.Circle))
	require.NoError(t, err)
	assert.NotEmpty(t, tmpl.ID)
	assert.Equal(t, "circle", tmpl.Name)
	assert.Equal(t, 1, a.Recognizer().Len())

	stored, err := s.Templates().GetByID(tmpl.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Points, len(catalog.Points(catalog.Circle)))

	got, err := a.Template(tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "circle", got.Name)
}

func TestApp_AddTemplate_Invalid(t *testing.T) {
	a, s := newTestApp(t)

	tests := []struct {
		name    string
		tmpl    string
		points  []gesture.Point
		wantErr error
	}{
		{"blank name", "   ", catalog.Points(catalog.Circle), ErrInvalidTemplate},
		{"no points", "empty", nil, ErrInvalidTemplate},
		{"single point", "dot", []gesture.Point{{X: 1, Y: 1}}, gesture.ErrInsufficientPoints},
		{"horizontal", "flat", []gesture.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, gesture.ErrDegenerateGeometry},
		{"repeated point", "still", []gesture.Point{{X: 3, Y: 3}, {X: 3, Y: 3}}, gesture.ErrDegenerateGeometry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.AddTemplate(tt.tmpl, tt.points)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}

	// Nothing reached the store or the recognizer
	count, err := s.Templates().Count()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, a.Recognizer().Len())
}

func TestApp_Import(t *testing.T) {
	a, _ := newTestApp(t)

	report := a.Import([]gesture.Gesture{
		gesture.New(catalog.Check, catalog.Points(catalog.Check)),
		gesture.New("flat", []gesture.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}),
		gesture.New(catalog.Star, catalog.Points(catalog.Star)),
	})

	assert.Equal(t, 2, report.Added)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 1, report.Skipped[0].Index)
	assert.Equal(t, "flat", report.Skipped[0].Name)
	assert.NotEmpty(t, report.Skipped[0].Error)
	assert.Equal(t, 2, a.Recognizer().Len())
}

func TestApp_RemoveTemplate(t *testing.T) {
	a, _ := newTestApp(t)

	circle, err := a.AddTemplate(catalog.Circle, catalog.Points(catalog.Circle))
	require.NoError(t, err)
	_, err = a.AddTemplate(catalog.Triangle, catalog.Points(catalog.Triangle))
	require.NoError(t, err)

	require.NoError(t, a.RemoveTemplate(circle.ID))
	assert.Equal(t, 1, a.Recognizer().Len())

	res, err := a.Recognize(catalog.Points(catalog.Circle))
	require.NoError(t, err)
	assert.Equal(t, catalog.Triangle, res.Name)

	assert.ErrorIs(t, a.RemoveTemplate(circle.ID), store.ErrNotFound)
}

func TestApp_Recognize_Errors(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := a.Recognize(catalog.Points(catalog.Circle))
	assert.ErrorIs(t, err, gesture.ErrEmptyTemplateSet)

	_, err = a.AddTemplate(catalog.Circle, catalog.Points(catalog.Circle))
	require.NoError(t, err)

	_, err = a.Recognize([]gesture.Point{{X: 1, Y: 1}})
	assert.ErrorIs(t, err, gesture.ErrInsufficientPoints)

	_, err = a.Recognize([]gesture.Point{{X: 0, Y: 0}, {X: 0, Y: 40}})
	assert.ErrorIs(t, err, gesture.ErrDegenerateGeometry)
}

func TestApp_Scores(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := a.Seed()
	require.NoError(t, err)

	scores, err := a.Scores(catalog.Points(catalog.Zigzag))
	require.NoError(t, err)
	require.Len(t, scores, len(catalog.Names()))
	for i, name := range catalog.Names() {
		assert.Equal(t, name, scores[i].Name)
	}
}

func TestApp_Export(t *testing.T) {
	a, _ := newTestApp(t)
	_, err := a.Seed()
	require.NoError(t, err)

	exported := a.Export()
	require.Len(t, exported, len(catalog.Names()))
	for _, g := range exported {
		assert.Equal(t, gesture.DefaultNumPoints, g.Len())
		c := g.Centroid()
		assert.InDelta(t, 0, c.X, 1e-9)
		assert.InDelta(t, 0, c.Y, 1e-9)
	}
}

func TestApp_Settings(t *testing.T) {
	a, s := newTestApp(t)
	_, err := a.Seed()
	require.NoError(t, err)

	settings := a.Settings()
	assert.Equal(t, "64", settings[config.KeyNumPoints])
	assert.Equal(t, "250", settings[config.KeySquareSize])

	require.NoError(t, a.SetSetting(config.KeyNumPoints, "32"))
	assert.Equal(t, "32", a.Settings()[config.KeyNumPoints])
	assert.Equal(t, 32, a.Recognizer().Options().NumPoints)
	assert.Equal(t, len(catalog.Names()), a.Recognizer().Len())
	for _, g := range a.Export() {
		assert.Equal(t, 32, g.Len())
	}

	stored, err := s.Settings().Get(config.KeyNumPoints)
	require.NoError(t, err)
	assert.Equal(t, "32", stored)

	// Overrides survive a reload from the store
	b := New(Config{Store: s, Settings: config.Default()})
	require.NoError(t, b.LoadTemplates())
	assert.Equal(t, 32, b.Recognizer().Options().NumPoints)
}

func TestApp_SetSetting_Invalid(t *testing.T) {
	a, s := newTestApp(t)

	assert.ErrorIs(t, a.SetSetting("recognizer.bogus", "1"), config.ErrUnknownSetting)
	assert.ErrorIs(t, a.SetSetting(config.KeyNumPoints, "1"), gesture.ErrInvalidOptions)
	assert.Error(t, a.SetSetting(config.KeySquareSize, "big"))

	all, err := s.Settings().All()
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, gesture.DefaultNumPoints, a.Recognizer().Options().NumPoints)
}

func TestApp_WithoutStore(t *testing.T) {
	a := New(Config{})
	require.NoError(t, a.LoadTemplates())

	_, err := a.AddTemplate(catalog.Caret, catalog.Points(catalog.Caret))
	require.NoError(t, err)

	require.NoError(t, a.SetSetting(config.KeyNumPoints, "48"))
	assert.Equal(t, 1, a.Recognizer().Len())
	assert.Equal(t, 48, a.Export()[0].Len())

	assert.ErrorIs(t, a.RemoveTemplate("any"), store.ErrNotFound)
}

func TestApp_WithoutStore_SetSettingNormalizesRawStrokes(t *testing.T) {
	a := New(Config{})
	raw := catalog.Points(catalog.Star)
	_, err := a.AddTemplate(catalog.Star, raw)
	require.NoError(t, err)

	require.NoError(t, a.SetSetting(config.KeyNumPoints, "48"))
	require.NoError(t, a.SetSetting(config.KeySquareSize, "100"))

	opts := gesture.DefaultOptions()
	opts.NumPoints = 48
	opts.SquareSize = 100
	want, err := gesture.NewRecognizer(opts, []gesture.Gesture{gesture.New(catalog.Star, raw)})
	require.NoError(t, err)

	assert.Equal(t, 48, a.Config().Recognizer.NumPoints, "earlier override should be kept")
	assert.Equal(t, want.Templates(), a.Export())
}
