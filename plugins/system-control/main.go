// Package main is the system-control plugin. It changes the output volume
// in response to VOLUME_UP and VOLUME_DOWN gestures, using AppleScript on
// macOS and pactl on Linux.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
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

// VolumeParams tunes the volume step in percent.
type VolumeParams struct {
	Step int `json:"step"`
}

const defaultStep = 10

type actionHandler func(step int) error

var actionHandlers = map[string]actionHandler{
	"volume-up":   func(step int) error { return changeVolume(step) },
	"volume-down": func(step int) error { return changeVolume(-step) },
	"volume-mute": func(int) error { return toggleMute() },
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	handler, ok := actionHandlers[req.Action]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	params := VolumeParams{Step: defaultStep}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse params: %v", err))
			return
		}
		if params.Step <= 0 {
			params.Step = defaultStep
		}
	}

	if err := handler(params.Step); err != nil {
		writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
		return
	}

	writeSuccessResponse()
}

func changeVolume(delta int) error {
	switch runtime.GOOS {
	case "darwin":
		return run("osascript", "-e",
			fmt.Sprintf(`set volume output volume ((output volume of (get volume settings)) + %d)`, delta))
	case "linux":
		return run("pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%+d%%", delta))
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
}

func toggleMute() error {
	switch runtime.GOOS {
	case "darwin":
		return run("osascript", "-e", `set volume output muted (not (output muted of (get volume settings)))`)
	case "linux":
		return run("pactl", "set-sink-mute", "@DEFAULT_SINK@", "toggle")
	default:
		return fmt.Errorf("unsupported platform %s", runtime.GOOS)
	}
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
