package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/gesture"
	"github.com/ayusman/unistroke/internal/store"
)

// TemplateHandler handles HTTP requests for template resources.
type TemplateHandler struct {
	app      *app.App
	previews *PreviewHandler
}

// NewTemplateHandler creates a new TemplateHandler. previews may be nil;
// when set, its cached images are dropped as templates are deleted.
func NewTemplateHandler(a *app.App, previews *PreviewHandler) *TemplateHandler {
	return &TemplateHandler{app: a, previews: previews}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *TemplateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/templates, /api/templates/export,
	// /api/templates/import or /api/templates/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/templates")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	case "export":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.export(w, r)
		return
	case "import":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.importTemplates(w, r)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type templateResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	NumPoints int             `json:"num_points"`
	Points    []gesture.Point `json:"points,omitempty"`
	CreatedAt string          `json:"created_at"`
}

type listTemplatesResponse struct {
	Templates []templateResponse `json:"templates"`
}

// templateJSON is the import and export shape of a template.
type templateJSON struct {
	Name   string          `json:"name"`
	Points []gesture.Point `json:"points"`
}

// toResponse converts a store.Template to a templateResponse.
func toResponse(t *store.Template, withPoints bool) templateResponse {
	resp := templateResponse{
		ID:        t.ID,
		Name:      t.Name,
		NumPoints: len(t.Points),
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
	if withPoints {
		resp.Points = make([]gesture.Point, len(t.Points))
		for i, p := range t.Points {
			resp.Points[i] = gesture.Point{X: p.X, Y: p.Y}
		}
	}
	return resp
}

// list handles GET /api/templates and returns all templates without their points.
func (h *TemplateHandler) list(w http.ResponseWriter, r *http.Request) {
	templates, err := h.app.Templates()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list templates")
		return
	}

	response := listTemplatesResponse{
		Templates: make([]templateResponse, 0, len(templates)),
	}
	for _, t := range templates {
		response.Templates = append(response.Templates, toResponse(t, false))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/templates/{id} and returns a single template.
func (h *TemplateHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	t, err := h.app.Template(id)
	if err != nil {
		writeAppError(w, err, "Failed to get template")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(t, true))
}

// create handles POST /api/templates and adds a template from a raw stroke.
func (h *TemplateHandler) create(w http.ResponseWriter, r *http.Request) {
	var req strokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	t, err := h.app.AddTemplate(req.Name, req.Points)
	if err != nil {
		writeAppError(w, err, "Failed to create template")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(t, true))
}

// delete handles DELETE /api/templates/{id} and removes a template.
func (h *TemplateHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.app.RemoveTemplate(id); err != nil {
		writeAppError(w, err, "Failed to delete template")
		return
	}
	if h.previews != nil {
		h.previews.Invalidate(id)
	}

	w.WriteHeader(http.StatusNoContent)
}

// export handles GET /api/templates/export and returns the normalized templates.
func (h *TemplateHandler) export(w http.ResponseWriter, r *http.Request) {
	templates := h.app.Export()

	out := make([]templateJSON, 0, len(templates))
	for _, g := range templates {
		out = append(out, templateJSON{Name: g.Name(), Points: g.Points()})
	}

	w.Header().Set("Content-Disposition", `attachment; filename="templates.json"`)
	writeJSON(w, http.StatusOK, out)
}

// importTemplates handles POST /api/templates/import with raw strokes.
func (h *TemplateHandler) importTemplates(w http.ResponseWriter, r *http.Request) {
	var req []templateJSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	gestures := make([]gesture.Gesture, 0, len(req))
	for _, t := range req {
		gestures = append(gestures, gesture.New(t.Name, t.Points))
	}

	writeJSON(w, http.StatusOK, h.app.Import(gestures))
}
