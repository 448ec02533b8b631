// Package plugin discovers and runs action plugins, and dispatches confirmed
// gestures to the plugin action bound to them.
package plugin

import (
	"encoding/json"
	"slices"

	"github.com/ayusman/mudra/internal/gesture"
)

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// HasAction reports whether the manifest declares action.
func (m Manifest) HasAction(action string) bool {
	return slices.Contains(m.Actions, action)
}

// Request is written to a plugin's stdin as JSON.
type Request struct {
	Action  string          `json:"action"`
	Gesture gesture.Gesture `json:"gesture"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is read from a plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
