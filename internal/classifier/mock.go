package classifier

import (
	"sync"

	"github.com/ayusman/mudra/internal/gesture"
)

// MockModel is a scripted Model for tests. It returns the configured scores
// and counts invocations.
type MockModel struct {
	mu     sync.Mutex
	scores []float32
	err    error
	calls  int
	last   *Tensor
}

// NewMockModel returns a model answering with scores.
func NewMockModel(scores []float32) *MockModel {
	return &MockModel{scores: scores}
}

// OneHot returns scores of value at g's index and 0 elsewhere.
func OneHot(g gesture.Gesture, value float32) []float32 {
	scores := make([]float32, GestureCount)
	if g.Valid() {
		scores[g] = value
	}
	return scores
}

// SetScores changes the scores returned by subsequent calls.
func (m *MockModel) SetScores(scores []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = scores
}

// SetError makes subsequent calls fail with err; nil clears it.
func (m *MockModel) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of Run invocations.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastInput returns the most recent input tensor, or nil.
func (m *MockModel) LastInput() *Tensor {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Run implements Model.
func (m *MockModel) Run(input *Tensor) (*Tensor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.last = input
	if m.err != nil {
		return nil, m.err
	}
	data := append([]float32(nil), m.scores...)
	return &Tensor{Shape: []int{1, len(data)}, Data: data}, nil
}
