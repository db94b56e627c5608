package api

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cast"

	"github.com/ayusman/unistroke/internal/app"
	"github.com/ayusman/unistroke/internal/gesture"
)

// RecognizeHandler matches raw strokes against the live templates.
type RecognizeHandler struct {
	app *app.App
}

// NewRecognizeHandler creates a new RecognizeHandler.
func NewRecognizeHandler(a *app.App) *RecognizeHandler {
	return &RecognizeHandler{app: a}
}

type recognizeResponse struct {
	gesture.Result
	Scores []gesture.Result `json:"scores,omitempty"`
}

// ServeHTTP handles POST /api/recognize. With ?all=true the score against
// every template is included.
func (h *RecognizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req strokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !cast.ToBool(r.URL.Query().Get("all")) {
		res, err := h.app.Recognize(req.Points)
		if err != nil {
			writeAppError(w, err, "Failed to recognize stroke")
			return
		}
		writeJSON(w, http.StatusOK, recognizeResponse{Result: res})
		return
	}

	scores, err := h.app.Scores(req.Points)
	if err != nil {
		writeAppError(w, err, "Failed to recognize stroke")
		return
	}

	// Same rule as Recognizer.Recognize: the earliest minimum wins
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score < best.Score {
			best = s
		}
	}
	writeJSON(w, http.StatusOK, recognizeResponse{Result: best, Scores: scores})
}
