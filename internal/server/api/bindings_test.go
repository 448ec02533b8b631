package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestBindingHandler_CreateAndList(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	w := doJSON(t, handler, http.MethodPost, "/api/bindings",
		`{"gesture":"volume-up","plugin_name":"system-control","action_name":"volume-up","config":{"step":5}}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var created store.Binding
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" || created.Gesture != gesture.VolumeUp || !created.Enabled {
		t.Errorf("unexpected binding %+v", created)
	}

	w = doJSON(t, handler, http.MethodGet, "/api/bindings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var listed listBindingsResponse
	if err := json.NewDecoder(w.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listed.Bindings) != 1 || listed.Bindings[0].ID != created.ID {
		t.Fatalf("unexpected bindings %+v", listed.Bindings)
	}
	if string(listed.Bindings[0].Config) != `{"step":5}` {
		t.Errorf("config not stored: %s", listed.Bindings[0].Config)
	}
}

func TestBindingHandler_CreateValidation(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed", `{"gesture":`, http.StatusBadRequest},
		{"unknown gesture", `{"gesture":"WAVE","plugin_name":"p","action_name":"a"}`, http.StatusBadRequest},
		{"missing gesture", `{"plugin_name":"p","action_name":"a"}`, http.StatusBadRequest},
		{"none gesture", `{"gesture":"NONE","plugin_name":"p","action_name":"a"}`, http.StatusBadRequest},
		{"missing plugin", `{"gesture":"TAP","action_name":"a"}`, http.StatusBadRequest},
		{"missing action", `{"gesture":"TAP","plugin_name":"p"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, handler, http.MethodPost, "/api/bindings", tt.body)
			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestBindingHandler_Conflict(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	body := `{"gesture":"TAP","plugin_name":"keyboard","action_name":"click"}`
	if w := doJSON(t, handler, http.MethodPost, "/api/bindings", body); w.Code != http.StatusCreated {
		t.Fatalf("first create: expected %d, got %d", http.StatusCreated, w.Code)
	}
	if w := doJSON(t, handler, http.MethodPost, "/api/bindings", body); w.Code != http.StatusConflict {
		t.Errorf("second create: expected %d, got %d", http.StatusConflict, w.Code)
	}
}

func TestBindingHandler_UpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	handler := NewBindingHandler(s)

	b := &store.Binding{Gesture: gesture.ZoomIn, PluginName: "keyboard", ActionName: "zoom-in", Enabled: true}
	if err := s.Bindings().Create(b); err != nil {
		t.Fatalf("failed to create binding: %v", err)
	}
	other := &store.Binding{Gesture: gesture.ZoomOut, PluginName: "keyboard", ActionName: "zoom-out", Enabled: true}
	if err := s.Bindings().Create(other); err != nil {
		t.Fatalf("failed to create binding: %v", err)
	}

	w := doJSON(t, handler, http.MethodPut, "/api/bindings/"+b.ID,
		`{"gesture":"ZOOM_IN","plugin_name":"keyboard","action_name":"shortcut","config":{"key":"="},"enabled":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	got, err := s.Bindings().GetByID(b.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ActionName != "shortcut" || got.Enabled {
		t.Errorf("update not applied: %+v", got)
	}

	w = doJSON(t, handler, http.MethodPut, "/api/bindings/"+b.ID,
		`{"gesture":"ZOOM_OUT","plugin_name":"keyboard","action_name":"zoom-out"}`)
	if w.Code != http.StatusConflict {
		t.Errorf("rebinding to a bound gesture: expected %d, got %d", http.StatusConflict, w.Code)
	}

	w = doJSON(t, handler, http.MethodPut, "/api/bindings/missing",
		`{"gesture":"TAP","plugin_name":"keyboard","action_name":"click"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing: expected %d, got %d", http.StatusNotFound, w.Code)
	}

	if w := doJSON(t, handler, http.MethodGet, "/api/bindings/"+b.ID, ""); w.Code != http.StatusOK {
		t.Errorf("get: expected %d, got %d", http.StatusOK, w.Code)
	}

	if w := doJSON(t, handler, http.MethodDelete, "/api/bindings/"+b.ID, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected %d, got %d", http.StatusNoContent, w.Code)
	}
	if w := doJSON(t, handler, http.MethodDelete, "/api/bindings/"+b.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete: expected %d, got %d", http.StatusNotFound, w.Code)
	}
	if w := doJSON(t, handler, http.MethodGet, "/api/bindings/"+b.ID, ""); w.Code != http.StatusNotFound {
		t.Errorf("get deleted: expected %d, got %d", http.StatusNotFound, w.Code)
	}
}
