// Package main provides a hook that appends recognized strokes to a JSON
// lines file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Event represents the input from the hook executor.
type Event struct {
	Template string          `json:"template"`
	Score    float64         `json:"score"`
	Angle    float64         `json:"angle"`
	Points   int             `json:"points"`
	Time     time.Time       `json:"time"`
	Config   json.RawMessage `json:"config"`
}

// Response represents the output to the hook executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config is read from the "config" object of hook.json.
type Config struct {
	// File is the log path, relative to the hook directory when not absolute.
	File string `json:"file"`
}

func main() {
	var ev Event
	if err := json.NewDecoder(os.Stdin).Decode(&ev); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode event: %v", err))
		return
	}

	cfg := Config{File: "strokes.jsonl"}
	if len(ev.Config) > 0 {
		if err := json.Unmarshal(ev.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	if err := appendEvent(cfg.File, ev); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to log %s: %v", ev.Template, err))
		return
	}

	writeSuccessResponse(cfg.File)
}

// appendEvent writes ev as one JSON line to path.
func appendEvent(path string, ev Event) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	ev.Config = nil
	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = f.Write(append(line, '\n'))
	return err
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse(file string) {
	data, _ := json.Marshal(map[string]string{"file": file})
	resp := Response{
		Success: true,
		Data:    data,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
