package app

import (
	"sync"
	"time"

	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/hook"
	"github.com/ayusman/unistroke/internal/store"
)

// DefaultMaxPoints is the stroke buffer size used when none is configured.
const DefaultMaxPoints = 2048

// Session buffers the points of a stroke being drawn live.
type Session struct {
	app       *App
	maxPoints int
	points    []gesture.Point
	mu        sync.Mutex
}

// NewSession creates an empty stroke session bound to the app.
func (a *App) NewSession() *Session {
	max := a.Config().Stroke.MaxPoints
	if max <= 0 {
		max = DefaultMaxPoints
	}
	return &Session{
		app:       a,
		maxPoints: max,
		points:    make([]gesture.Point, 0, 64),
	}
}

// AddPoint appends p to the stroke. A point equal to the previous one is
// ignored. When the buffer is full the oldest point is dropped.
// It returns the number of buffered points.
func (s *Session) AddPoint(p gesture.Point) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.points); n > 0 && s.points[n-1] == p {
		return n
	}

	if len(s.points) >= s.maxPoints {
		// Shift left by 1, removing oldest point
		copy(s.points, s.points[1:])
		s.points = s.points[:s.maxPoints-1]
	}
	s.points = append(s.points, p)
	return len(s.points)
}

// Points returns a copy of the buffered stroke.
func (s *Session) Points() []gesture.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gesture.Point(nil), s.points...)
}

// Len returns the number of buffered points.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.points)
}

// Clear discards the buffered stroke.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = s.points[:0]
}

// Recognize matches the buffered stroke and clears it on success.
// Configured hooks are notified of the match.
func (s *Session) Recognize() (gesture.Result, error) {
	points := s.Points()
	res, err := s.app.Recognize(points)
	if err != nil {
		return gesture.Result{}, err
	}
	s.Clear()

	if s.app.config.Hooks != nil {
		s.app.config.Hooks.Notify(hook.Event{
			Template: res.Name,
			Score:    res.Score,
			Angle:    res.Angle,
			Points:   len(points),
			Time:     time.Now(),
		})
	}
	return res, nil
}

// SaveAsTemplate stores the buffered stroke as a new template named name
// and clears it on success.
func (s *Session) SaveAsTemplate(name string) (*store.Template, error) {
	t, err := s.app.AddTemplate(name, s.Points())
	if err != nil {
		return nil, err
	}
	s.Clear()
	return t, nil
}
