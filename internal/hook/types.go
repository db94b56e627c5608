// Package hook runs external programs when a stroke is recognized.
package hook

import (
	"encoding/json"
	"time"
)

// ManifestFile is the manifest name looked up in each hook directory.
const ManifestFile = "hook.json"

// Manifest describes a hook and the templates it reacts to.
type Manifest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Templates lists the template names that trigger the hook.
	// An empty list or "*" matches every template.
	Templates []string `json:"templates"`
	// MaxScore rejects matches scoring above it. Zero disables the check.
	MaxScore float64         `json:"maxScore,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// Event is sent to a hook on stdin.
type Event struct {
	Template string          `json:"template"`
	Score    float64         `json:"score"`
	Angle    float64         `json:"angle"`
	Points   int             `json:"points"`
	Time     time.Time       `json:"time"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// Response is read from a hook's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Hook is a discovered hook with its manifest and location.
type Hook struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Matches reports whether the hook should run for a match of template
// with the given score.
func (h *Hook) Matches(template string, score float64) bool {
	if h.Manifest.MaxScore > 0 && score > h.Manifest.MaxScore {
		return false
	}
	if len(h.Manifest.Templates) == 0 {
		return true
	}
	for _, name := range h.Manifest.Templates {
		if name == "*" || name == template {
			return true
		}
	}
	return false
}
