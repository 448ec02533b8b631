// Package main is the keyboard plugin. It turns gestures into keystrokes:
// zoom and slide shortcuts plus arbitrary keystrokes, using AppleScript on
// macOS and xdotool on Linux.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Params  json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeystrokeParams defines parameters for the keystroke action.
type KeystrokeParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // command, option, control, shift
}

// presets are the fixed shortcuts behind the gesture-named actions.
// The primary modifier is command on macOS and control elsewhere.
var presets = map[string]KeystrokeParams{
	"zoom-in":    {Key: "=", Modifiers: []string{"primary"}},
	"zoom-out":   {Key: "-", Modifiers: []string{"primary"}},
	"slide-next": {Key: "right"},
	"slide-prev": {Key: "left"},
	"click":      {Key: "space"},
}

var appleModifiers = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

var xdotoolModifiers = map[string]string{
	"command": "super",
	"cmd":     "super",
	"option":  "alt",
	"alt":     "alt",
	"control": "ctrl",
	"ctrl":    "ctrl",
	"shift":   "shift",
}

// appleKeyCodes covers named keys that keystroke cannot type.
var appleKeyCodes = map[string]int{
	"left":   123,
	"right":  124,
	"down":   125,
	"up":     126,
	"space":  49,
	"return": 36,
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var p KeystrokeParams
	switch req.Action {
	case "keystroke", "shortcut":
		if err := json.Unmarshal(req.Params, &p); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse params: %v", err))
			return
		}
	default:
		preset, ok := presets[req.Action]
		if !ok {
			writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
			return
		}
		p = preset
	}

	if p.Key == "" {
		writeErrorResponse(fmt.Sprintf("action %s failed: key is required", req.Action))
		return
	}

	if err := sendKeystroke(p); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

func sendKeystroke(p KeystrokeParams) error {
	switch runtime.GOOS {
	case "darwin":
		return run("osascript", "-e", buildAppleScript(p))
	case "linux":
		return run("xdotool", "key", buildXdotoolChord(p))
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}

// buildAppleScript generates an AppleScript for the given key and modifiers.
func buildAppleScript(p KeystrokeParams) string {
	var mods []string
	for _, mod := range p.Modifiers {
		mod = strings.ToLower(mod)
		if mod == "primary" {
			mod = "command"
		}
		if appleMod, ok := appleModifiers[mod]; ok {
			mods = append(mods, appleMod)
		}
	}

	press := fmt.Sprintf(`keystroke "%s"`, p.Key)
	if code, ok := appleKeyCodes[strings.ToLower(p.Key)]; ok {
		press = fmt.Sprintf("key code %d", code)
	}
	if len(mods) > 0 {
		press += fmt.Sprintf(" using {%s}", strings.Join(mods, ", "))
	}
	return `tell application "System Events" to ` + press
}

// buildXdotoolChord generates an xdotool key chord such as "ctrl+equal".
func buildXdotoolChord(p KeystrokeParams) string {
	var parts []string
	for _, mod := range p.Modifiers {
		mod = strings.ToLower(mod)
		if mod == "primary" {
			mod = "ctrl"
		}
		if x, ok := xdotoolModifiers[mod]; ok {
			parts = append(parts, x)
		}
	}

	key := p.Key
	switch strings.ToLower(key) {
	case "=":
		key = "equal"
	case "-":
		key = "minus"
	case "left", "right", "up", "down":
		key = strings.ToUpper(key[:1]) + strings.ToLower(key[1:])
	case "return":
		key = "Return"
	}
	return strings.Join(append(parts, key), "+")
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}

func run(name string, args ...string) error {
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
