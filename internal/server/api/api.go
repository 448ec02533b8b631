// Package api provides the HTTP handlers of the mudra control surface.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/session"
)

// Recognizer is the part of the running app the handlers drive.
type Recognizer interface {
	Ingest(frame detector.LandmarkFrame) (session.Result, error)
	EndSession() int
	ExportPrevious(ctx context.Context, label gesture.Gesture) (session.Export, error)
	Stats() session.Stats
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
