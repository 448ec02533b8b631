package detector

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/landmark"
)

// MockDetector is a test implementation of the Detector interface.
// It replays a fixed sequence of detection results, one per Detect call.
type MockDetector struct {
	mu       sync.Mutex
	sequence [][]HandLandmarks
	next     int
	loop     bool
	err      error
	calls    int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands makes every Detect call return the given hands.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = [][]HandLandmarks{hands}
	m.next = 0
	m.loop = true
}

// SetSequence replays results in order. When loop is false, Detect returns
// no hands once the sequence is exhausted.
func (m *MockDetector) SetSequence(results [][]HandLandmarks, loop bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = results
	m.next = 0
	m.loop = loop
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of Detect invocations.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the next pre-configured result or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) == 0 {
		return nil, nil
	}
	if m.next >= len(m.sequence) {
		if !m.loop {
			return nil, nil
		}
		m.next = 0
	}
	hands := m.sequence[m.next]
	m.next++
	return hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmLandmarks returns a right hand with all fingers extended upward.
func OpenPalmLandmarks() HandLandmarks {
	return landmark.OpenPalm()
}

// PinchLandmarks returns a right hand in the starting pose of a zoom.
func PinchLandmarks() HandLandmarks {
	return landmark.Pinch()
}

// Shifted returns a copy of h translated by (dx, dy).
func Shifted(h HandLandmarks, dx, dy float64) HandLandmarks {
	return landmark.Shifted(h, dx, dy)
}
