package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/spf13/cast"

	"github.com/ayusman/unistroke/internal/app"
)

// SettingsHandler reads and updates the runtime recognizer settings.
type SettingsHandler struct {
	app *app.App
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(a *app.App) *SettingsHandler {
	return &SettingsHandler{app: a}
}

type settingsResponse struct {
	Settings map[string]string `json:"settings"`
}

type updateSettingRequest struct {
	Value interface{} `json:"value"`
}

// ServeHTTP routes GET /api/settings and PUT /api/settings/{key}.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/settings")
	key = strings.TrimPrefix(key, "/")

	if key == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, settingsResponse{Settings: h.app.Settings()})
		return
	}

	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req updateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Accept both "value": 32 and "value": "32"
	value, err := cast.ToStringE(req.Value)
	if err != nil || req.Value == nil {
		writeError(w, http.StatusBadRequest, "Value is required")
		return
	}

	if err := h.app.SetSetting(key, value); err != nil {
		writeAppError(w, err, "Failed to update setting")
		return
	}

	writeJSON(w, http.StatusOK, settingsResponse{Settings: h.app.Settings()})
}
