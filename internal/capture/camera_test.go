package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantFPS int
	}{
		{
			name:    "defaults",
			config:  Config{},
			wantFPS: DefaultFPS,
		},
		{
			name:    "device 1 at 30fps",
			config:  Config{Device: "1", FPS: 30},
			wantFPS: 30,
		},
		{
			name:    "video file",
			config:  Config{Device: "/tmp/clip.mp4", FPS: 10},
			wantFPS: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.config)

			if got := cam.FPS(); got != tt.wantFPS {
				t.Errorf("FPS() = %d, want %d", got, tt.wantFPS)
			}
			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestCamera_Source(t *testing.T) {
	if src := NewCamera(Config{Device: "2"}).(*cameraImpl).source(); src != 2 {
		t.Errorf("expected device index 2, got %v", src)
	}
	if src := NewCamera(Config{Device: "rtsp://cam/stream"}).(*cameraImpl).source(); src != "rtsp://cam/stream" {
		t.Errorf("expected URL source, got %v", src)
	}
	if src := NewCamera(Config{}).(*cameraImpl).source(); src != 0 {
		t.Errorf("expected default device 0, got %v", src)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(Config{})

	cam.SetFPS(10)
	if got := cam.FPS(); got != 10 {
		t.Errorf("FPS() = %d, want 10", got)
	}

	cam.SetFPS(0)
	cam.SetFPS(-5)
	if got := cam.FPS(); got != 10 {
		t.Errorf("non-positive FPS should be ignored, got %d", got)
	}
}

func TestCamera_OpenClose_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cam := NewCamera(Config{})

	if err := cam.Open(); err != nil {
		t.Skipf("skipping test - camera not available: %v", err)
	}

	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	mat, err := cam.ReadFrame()
	if err != nil {
		t.Errorf("ReadFrame() failed: %v", err)
	} else {
		if mat.Empty() {
			t.Error("ReadFrame() returned empty mat")
		}
		mat.Close()
	}

	if err := cam.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewCamera(Config{})

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("expected ErrCameraNotOpen, got %v", err)
	}
}

func TestCamera_Close_NotOpened(t *testing.T) {
	cam := NewCamera(Config{})

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on not opened camera should return nil, got: %v", err)
	}
}
