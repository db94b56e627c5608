package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/render"
)

// PreviewHandler serves PNG previews of stored templates.
// Rendered images are cached per template ID.
type PreviewHandler struct {
	app   *app.App
	opts  render.Options
	cache *cache.Cache
}

// NewPreviewHandler creates a new PreviewHandler. Cached previews expire
// after ttl.
func NewPreviewHandler(a *app.App, opts render.Options, ttl time.Duration) *PreviewHandler {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PreviewHandler{
		app:   a,
		opts:  opts,
		cache: cache.New(ttl, 2*ttl),
	}
}

// ServeHTTP handles GET /api/templates/{id}/preview.png.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/templates/")
	id = strings.TrimSuffix(id, "/preview.png")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "Template not found")
		return
	}

	data, err := h.render(id)
	if err != nil {
		writeAppError(w, err, "Failed to render preview")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Invalidate drops the cached preview of a template.
func (h *PreviewHandler) Invalidate(id string) {
	h.cache.Delete(id)
}

func (h *PreviewHandler) render(id string) ([]byte, error) {
	if cached, ok := h.cache.Get(id); ok {
		return cached.([]byte), nil
	}

	t, err := h.app.Template(id)
	if err != nil {
		return nil, err
	}

	points := make([]gesture.Point, len(t.Points))
	for i, p := range t.Points {
		points[i] = gesture.Point{X: p.X, Y: p.Y}
	}

	data, err := render.PNG(gesture.New(t.Name, points), h.opts)
	if err != nil {
		return nil, err
	}

	h.cache.SetDefault(id, data)
	return data, nil
}
