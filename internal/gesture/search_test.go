package gesture

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizedTriangle(t *testing.T) Gesture {
	t.Helper()
	g := New("triangle", []Point{{X: 0, Y: 100}, {X: 50, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}})
	r, err := NewRecognizer(DefaultOptions(), nil)
	require.NoError(t, err)
	normalized, err := r.Normalize(g)
	require.NoError(t, err)
	return normalized
}

func TestPathDistance(t *testing.T) {
	a := New("a", []Point{{X: 0, Y: 0}, {X: 1, Y: 0}})
	b := New("b", []Point{{X: 0, Y: 3}, {X: 1, Y: 1}})

	d, err := PathDistance(a, a)
	require.NoError(t, err)
	assert.Equal(t, 0.0, d)

	d, err = PathDistance(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d, 1e-12)

	_, err = PathDistance(a, New("c", []Point{{X: 0, Y: 0}}))
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = PathDistance(New("", nil), New("", nil))
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestDistanceAtBestAngle_RecoversRotation(t *testing.T) {
	template := normalizedTriangle(t)
	precision := DefaultAnglePrecision

	for _, offset := range []float64{-0.5, -0.2, 0, 0.3, 0.6} {
		candidate := template.RotateBy(offset)
		match, err := DistanceAtBestAngle(candidate, template, -DefaultAngleRange, DefaultAngleRange, precision)
		require.NoError(t, err)

		assert.InDelta(t, -offset, match.Angle, precision, "offset %f", offset)
		assert.Less(t, match.Distance, 5.0, "offset %f", offset)
	}
}

func TestDistanceAtBestAngle_LocalMinimum(t *testing.T) {
	template := normalizedTriangle(t)
	candidate := template.RotateBy(0.35)
	precision := DefaultAnglePrecision

	match, err := DistanceAtBestAngle(candidate, template, -DefaultAngleRange, DefaultAngleRange, precision)
	require.NoError(t, err)

	f := func(angle float64) float64 {
		d, err := PathDistance(candidate.RotateBy(angle), template)
		require.NoError(t, err)
		return d
	}

	assert.InDelta(t, f(match.Angle), match.Distance, 1e-9)
	assert.Greater(t, f(match.Angle+precision), match.Distance)
	assert.Greater(t, f(match.Angle-precision), match.Distance)
}

func TestDistanceAtBestAngle_SwappedBracket(t *testing.T) {
	template := normalizedTriangle(t)
	candidate := template.RotateBy(0.2)

	forward, err := DistanceAtBestAngle(candidate, template, -DefaultAngleRange, DefaultAngleRange, DefaultAnglePrecision)
	require.NoError(t, err)
	swapped, err := DistanceAtBestAngle(candidate, template, DefaultAngleRange, -DefaultAngleRange, DefaultAnglePrecision)
	require.NoError(t, err)

	assert.Equal(t, forward, swapped)
}

func TestDistanceAtBestAngle_Errors(t *testing.T) {
	template := normalizedTriangle(t)

	_, err := DistanceAtBestAngle(template, template, -1, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = DistanceAtBestAngle(template, template, -1, 1, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidOptions)

	short := New("short", []Point{{X: 0, Y: 0}, {X: 1, Y: 1}})
	_, err = DistanceAtBestAngle(short, template, -1, 1, 0.1)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestDistanceAtBestAngle_TinyPrecisionTerminates(t *testing.T) {
	template := normalizedTriangle(t)
	candidate := template.RotateBy(0.1)

	done := make(chan AngleMatch, 1)
	go func() {
		match, err := DistanceAtBestAngle(candidate, template, -DefaultAngleRange, DefaultAngleRange, 1e-300)
		assert.NoError(t, err)
		done <- match
	}()

	select {
	case match := <-done:
		assert.InDelta(t, -0.1, match.Angle, 1e-3)
	case <-time.After(5 * time.Second):
		t.Fatal("search did not terminate with a precision below float resolution")
	}
}
