package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/session"
)

func TestSessionHandler_Stats(t *testing.T) {
	rec := &fakeRecognizer{stats: session.Stats{Session: 3, ActiveFrames: 9, LastGesture: gesture.Drag}}
	handler := NewSessionHandler(rec, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var stats session.Stats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.Session != 3 || stats.ActiveFrames != 9 || stats.LastGesture != gesture.Drag {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestSessionHandler_End(t *testing.T) {
	rec := &fakeRecognizer{stats: session.Stats{Session: 1}}
	handler := NewSessionHandler(rec, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/session/end", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET end: expected status %d, got %d", http.StatusMethodNotAllowed, w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/session/end", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp endSessionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Frames != 7 || resp.Session != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
	if rec.ended != 1 {
		t.Errorf("expected EndSession to be called once, got %d", rec.ended)
	}
}

func TestSessionHandler_Export(t *testing.T) {
	rec := &fakeRecognizer{written: 14}
	handler := NewSessionHandler(rec, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/session/export?label=zoom-in", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var resp exportResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Label != gesture.ZoomIn || resp.Path != "/captures/ZOOM_IN.csv" || resp.Frames != 14 {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(rec.exported) != 1 || rec.exported[0] != gesture.ZoomIn {
		t.Errorf("unexpected exports %v", rec.exported)
	}
}

// The reported frame count is the number of rows written, even when the
// previous buffer has been replaced since.
func TestSessionHandler_ExportReportsRowsWritten(t *testing.T) {
	rec := &fakeRecognizer{written: 12, stats: session.Stats{PreviousFrames: 0}}
	handler := NewSessionHandler(rec, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/session/export?label=TAP", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var resp exportResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Frames != 12 {
		t.Errorf("expected 12 frames written, got %d", resp.Frames)
	}
}

func TestSessionHandler_ExportErrors(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		exportErr error
		want      int
	}{
		{"missing label", "/api/session/export", nil, http.StatusBadRequest},
		{"unknown label", "/api/session/export?label=WAVE", nil, http.StatusBadRequest},
		{"none label", "/api/session/export?label=NONE", nil, http.StatusBadRequest},
		{"io failure", "/api/session/export?label=TAP", errExportIO, http.StatusInternalServerError},
		{"no exporter", "/api/session/export?label=TAP", session.ErrNoExporter, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{exportErr: tt.exportErr}
			handler := NewSessionHandler(rec, nil)

			req := httptest.NewRequest(http.MethodPost, tt.url, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Error == "" {
				t.Errorf("expected JSON error body, got %q", w.Body.String())
			}
		})
	}
}

func TestSessionHandler_UnknownPath(t *testing.T) {
	handler := NewSessionHandler(&fakeRecognizer{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/session/restart", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}
