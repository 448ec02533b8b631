package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// BindingHandler handles HTTP requests for gesture bindings.
type BindingHandler struct {
	store *store.Store
}

// NewBindingHandler creates a new BindingHandler with the given store.
func NewBindingHandler(s *store.Store) *BindingHandler {
	return &BindingHandler{store: s}
}

type bindingRequest struct {
	Gesture    gesture.Gesture `json:"gesture"`
	PluginName string          `json:"plugin_name"`
	ActionName string          `json:"action_name"`
	Config     json.RawMessage `json:"config,omitempty"`
	Enabled    *bool           `json:"enabled,omitempty"`
}

type listBindingsResponse struct {
	Bindings []*store.Binding `json:"bindings"`
}

// ServeHTTP routes /api/bindings and /api/bindings/{id}.
func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/bindings")
	id = strings.TrimPrefix(id, "/")

	if id == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (req *bindingRequest) validate() string {
	if !req.Gesture.Valid() {
		return "gesture is required"
	}
	if strings.TrimSpace(req.PluginName) == "" {
		return "plugin_name is required"
	}
	if strings.TrimSpace(req.ActionName) == "" {
		return "action_name is required"
	}
	if len(req.Config) > 0 && !json.Valid(req.Config) {
		return "config must be valid JSON"
	}
	return ""
}

func decodeBinding(r *http.Request) (*bindingRequest, string) {
	req := bindingRequest{Gesture: gesture.None}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, "Invalid request body"
	}
	if msg := req.validate(); msg != "" {
		return nil, msg
	}
	return &req, ""
}

// list handles GET /api/bindings.
func (h *BindingHandler) list(w http.ResponseWriter) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}
	if bindings == nil {
		bindings = []*store.Binding{}
	}
	writeJSON(w, http.StatusOK, listBindingsResponse{Bindings: bindings})
}

// create handles POST /api/bindings. A gesture can be bound only once.
func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	req, msg := decodeBinding(r)
	if req == nil {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.store.Bindings().GetByGesture(req.Gesture)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to look up binding")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, req.Gesture.String()+" is already bound")
		return
	}

	b := &store.Binding{
		Gesture:    req.Gesture,
		PluginName: req.PluginName,
		ActionName: req.ActionName,
		Config:     req.Config,
		Enabled:    req.Enabled == nil || *req.Enabled,
	}
	if err := h.store.Bindings().Create(b); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// get handles GET /api/bindings/{id}.
func (h *BindingHandler) get(w http.ResponseWriter, id string) {
	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// update handles PUT /api/bindings/{id}.
func (h *BindingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	req, msg := decodeBinding(r)
	if req == nil {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	b, err := h.store.Bindings().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	if req.Gesture != b.Gesture {
		other, err := h.store.Bindings().GetByGesture(req.Gesture)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to look up binding")
			return
		}
		if other != nil {
			writeError(w, http.StatusConflict, req.Gesture.String()+" is already bound")
			return
		}
	}

	b.Gesture = req.Gesture
	b.PluginName = req.PluginName
	b.ActionName = req.ActionName
	b.Config = req.Config
	if req.Enabled != nil {
		b.Enabled = *req.Enabled
	}
	if err := h.store.Bindings().Update(b); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update binding")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// delete handles DELETE /api/bindings/{id}.
func (h *BindingHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Bindings().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
