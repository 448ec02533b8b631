package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// CaptureHandler handles HTTP requests for catalogued captures.
type CaptureHandler struct {
	store *store.Store
}

// NewCaptureHandler creates a new CaptureHandler with the given store.
func NewCaptureHandler(s *store.Store) *CaptureHandler {
	return &CaptureHandler{store: s}
}

type listCapturesResponse struct {
	Captures []*store.Capture       `json:"captures"`
	Counts   map[gesture.Gesture]int `json:"counts"`
}

// ServeHTTP routes /api/captures and /api/captures/{id}.
func (h *CaptureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/captures")
	id = strings.TrimPrefix(id, "/")

	if id == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodDelete:
		h.delete(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/captures[?label=TAP].
func (h *CaptureHandler) list(w http.ResponseWriter, r *http.Request) {
	var (
		captures []*store.Capture
		err      error
	)
	if raw := r.URL.Query().Get("label"); raw != "" {
		label, perr := gesture.Parse(raw)
		if perr != nil || !label.Valid() {
			writeError(w, http.StatusBadRequest, "Unknown label")
			return
		}
		captures, err = h.store.Captures().ListByLabel(label)
		for _, c := range captures {
			c.Sequence = nil
		}
	} else {
		captures, err = h.store.Captures().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list captures")
		return
	}

	counts, err := h.store.Captures().CountByLabel()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count captures")
		return
	}

	if captures == nil {
		captures = []*store.Capture{}
	}
	writeJSON(w, http.StatusOK, listCapturesResponse{Captures: captures, Counts: counts})
}

// get handles GET /api/captures/{id} and includes the feature sequence.
func (h *CaptureHandler) get(w http.ResponseWriter, id string) {
	c, err := h.store.Captures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Capture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get capture")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// delete handles DELETE /api/captures/{id}. The CSV artifact is left alone.
func (h *CaptureHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Captures().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Capture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete capture")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
