package api

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayusman/unistroke/internal/catalog"
	"github.com/ayusman/unistroke/internal/render"
)

func TestPreviewHandler(t *testing.T) {
	a, _ := newTestApp(t)
	previews := NewPreviewHandler(a, render.Options{Size: 64, Thickness: 2}, time.Minute)

	created, err := a.AddTemplate(catalog.Star, catalog.Points(catalog.Star))
	if err != nil {
		t.Fatalf("failed to add template: %v", err)
	}

	path := "/api/templates/" + created.ID + "/preview.png"
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()

	previews.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected Content-Type image/png, got %s", ct)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a PNG: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 64 {
		t.Errorf("expected 64x64 image, got %dx%d", cfg.Width, cfg.Height)
	}

	if _, ok := previews.cache.Get(created.ID); !ok {
		t.Error("preview should be cached after first render")
	}
	previews.Invalidate(created.ID)
	if _, ok := previews.cache.Get(created.ID); ok {
		t.Error("preview should be dropped after Invalidate")
	}
}

func TestPreviewHandler_NotFound(t *testing.T) {
	a, _ := newTestApp(t)
	previews := NewPreviewHandler(a, render.DefaultOptions(), 0)

	for _, path := range []string{
		"/api/templates/missing/preview.png",
		"/api/templates//preview.png",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		previews.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestTemplateHandler_DeleteInvalidatesPreview(t *testing.T) {
	a, _ := newTestApp(t)
	previews := NewPreviewHandler(a, render.Options{Size: 32, Thickness: 1}, time.Minute)
	handler := NewTemplateHandler(a, previews)

	created, err := a.AddTemplate(catalog.Check, catalog.Points(catalog.Check))
	if err != nil {
		t.Fatalf("failed to add template: %v", err)
	}

	rec := httptest.NewRecorder()
	previews.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/templates/"+created.ID+"/preview.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/templates/"+created.ID, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	rec = httptest.NewRecorder()
	previews.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/templates/"+created.ID+"/preview.png", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, rec.Code)
	}
}
