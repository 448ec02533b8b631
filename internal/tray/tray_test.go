package tray

import (
	"testing"

	"github.com/ayusman/mudra/internal/gesture"
)

func TestTray_Toggle(t *testing.T) {
	tr := New()
	if !tr.IsEnabled() {
		t.Fatal("tray should start enabled")
	}

	var got []bool
	tr.OnToggle(func(enabled bool) { got = append(got, enabled) })

	tr.handleToggle()
	tr.handleToggle()

	if len(got) != 2 || got[0] || !got[1] {
		t.Errorf("unexpected toggle callbacks %v", got)
	}
	if !tr.IsEnabled() {
		t.Error("two toggles should leave the tray enabled")
	}
}

func TestTray_SessionCallbacks(t *testing.T) {
	tr := New()

	// Handlers without callbacks are no-ops.
	tr.handleEndSession()
	tr.handleSave(gesture.Tap)
	tr.handleSettings()

	ended := 0
	tr.OnEndSession(func() int {
		ended++
		return 12
	})
	var saved []gesture.Gesture
	tr.OnSave(func(label gesture.Gesture) { saved = append(saved, label) })
	settings := 0
	tr.OnSettings(func() { settings++ })

	tr.handleEndSession()
	tr.handleSave(gesture.VolumeDown)
	tr.handleSave(gesture.ZoomIn)
	tr.handleSettings()

	if ended != 1 {
		t.Errorf("expected one end-session call, got %d", ended)
	}
	if len(saved) != 2 || saved[0] != gesture.VolumeDown || saved[1] != gesture.ZoomIn {
		t.Errorf("unexpected saves %v", saved)
	}
	if settings != 1 {
		t.Errorf("expected one settings call, got %d", settings)
	}

	// No menu yet; must not panic.
	tr.SetLastGesture(gesture.Slide)
}

func TestTray_Titles(t *testing.T) {
	if toggleTitle(true) != "● Enabled" || toggleTitle(false) != "○ Disabled" {
		t.Error("unexpected toggle titles")
	}
	if lastGestureTitle(gesture.None) != "Last: none" {
		t.Errorf("unexpected title for NONE: %q", lastGestureTitle(gesture.None))
	}
	if lastGestureTitle(gesture.ZoomOut) != "Last: ZOOM_OUT" {
		t.Errorf("unexpected title for ZOOM_OUT: %q", lastGestureTitle(gesture.ZoomOut))
	}
}
