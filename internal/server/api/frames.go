package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/features"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/session"
)

// maxFrameBody bounds a single frame upload.
const maxFrameBody = 64 << 10

// FramesHandler accepts landmark frames from external detectors.
type FramesHandler struct {
	recognizer Recognizer
}

// NewFramesHandler creates a new FramesHandler.
func NewFramesHandler(r Recognizer) *FramesHandler {
	return &FramesHandler{recognizer: r}
}

type frameRequest struct {
	Points detector.LandmarkFrame `json:"points"`
}

type frameResponse struct {
	Frames    int             `json:"frames"`
	Inferred  bool            `json:"inferred"`
	Gesture   gesture.Gesture `json:"gesture"`
	Score     float32         `json:"score"`
	Confirmed *session.Event  `json:"confirmed,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// ServeHTTP handles POST /api/frames.
func (h *FramesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req frameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFrameBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.recognizer.Ingest(req.Points)
	if err != nil {
		var invalid *features.InvalidInputError
		var degenerate *features.DegenerateGeometryError
		var inference *classifier.InferenceError
		switch {
		case errors.As(err, &invalid), errors.As(err, &degenerate):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		case errors.As(err, &inference):
			// The frame was kept and NONE was voted; report the failure alongside.
		default:
			writeError(w, http.StatusInternalServerError, "Failed to ingest frame")
			return
		}
	}

	resp := frameResponse{
		Frames:    result.Frames,
		Inferred:  result.Inferred,
		Gesture:   result.Prediction.Gesture,
		Score:     result.Prediction.Score,
		Confirmed: result.Confirmed,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
