package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/export"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/session"
)

// SessionHandler serves /api/session: stats, end and export.
type SessionHandler struct {
	recognizer Recognizer
	logger     *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(r Recognizer, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{recognizer: r, logger: logger}
}

type endSessionResponse struct {
	Frames  int    `json:"frames"`
	Session uint64 `json:"session"`
}

type exportResponse struct {
	Label  gesture.Gesture `json:"label"`
	Path   string          `json:"path"`
	Frames int             `json:"frames"`
}

// ServeHTTP routes /api/session, /api/session/end and /api/session/export.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/session")
	path = strings.Trim(path, "/")

	switch path {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, h.recognizer.Stats())
	case "end":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		n := h.recognizer.EndSession()
		writeJSON(w, http.StatusOK, endSessionResponse{Frames: n, Session: h.recognizer.Stats().Session})
	case "export":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.export(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// export handles POST /api/session/export?label=TAP.
func (h *SessionHandler) export(w http.ResponseWriter, r *http.Request) {
	label, err := gesture.Parse(r.URL.Query().Get("label"))
	if err != nil || !label.Valid() {
		writeError(w, http.StatusBadRequest, "label must be one of "+labelList())
		return
	}

	exp, err := h.recognizer.ExportPrevious(r.Context(), label)
	if err != nil {
		var ioErr *export.IOError
		switch {
		case errors.Is(err, session.ErrNoExporter):
			writeError(w, http.StatusServiceUnavailable, "Export is not configured")
		case errors.As(err, &ioErr):
			writeError(w, http.StatusInternalServerError, "Failed to write "+ioErr.Path)
		default:
			writeError(w, http.StatusInternalServerError, "Failed to export session")
		}
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{
		Label:  exp.Label,
		Path:   exp.Path,
		Frames: exp.Frames,
	})
}

func labelList() string {
	all := gesture.All()
	names := make([]string, len(all))
	for i, g := range all {
		names[i] = g.String()
	}
	return strings.Join(names, ", ")
}
