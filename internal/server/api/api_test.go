package api

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ayusman/mudra/internal/classifier"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/export"
	"github.com/ayusman/mudra/internal/features"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

// fakeRecognizer records calls and returns canned results.
type fakeRecognizer struct {
	mu        sync.Mutex
	frames    []detector.LandmarkFrame
	result    session.Result
	ingestErr error
	ended     int
	exported  []gesture.Gesture
	written   int
	exportErr error
	stats     session.Stats
}

func (f *fakeRecognizer) Ingest(frame detector.LandmarkFrame) (session.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame)
	return f.result, f.ingestErr
}

func (f *fakeRecognizer) EndSession() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended++
	f.stats.Session++
	return 7
}

func (f *fakeRecognizer) ExportPrevious(_ context.Context, label gesture.Gesture) (session.Export, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exportErr != nil {
		return session.Export{Label: label}, f.exportErr
	}
	f.exported = append(f.exported, label)
	return session.Export{
		Label:  label,
		Path:   filepath.Join("/captures", label.String()+".csv"),
		Frames: f.written,
	}, nil
}

func (f *fakeRecognizer) Stats() session.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats
}

var (
	errDegenerate = &features.DegenerateGeometryError{Bone: 3, Start: 3, End: 4}
	errInference  = &classifier.InferenceError{Op: "run", Err: errors.New("backend crashed")}
	errExportIO   = &export.IOError{Op: "rename", Path: "/captures/TAP.csv", Err: errors.New("disk full")}
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}
