package gesture

import "sync"

// DefaultVoteSize is the number of consecutive identical predictions needed
// to confirm a gesture.
const DefaultVoteSize = 3

// Voter smooths raw per-frame predictions. It keeps the most recent
// predictions in a FIFO and confirms a gesture only when the history is full
// and every entry names the same real gesture.
//
// A confirmation does not clear the history, so a gesture held steady keeps
// confirming on every following frame.
type Voter struct {
	mu      sync.Mutex
	size    int
	history []Gesture
}

// NewVoter creates a Voter requiring size matching predictions.
// Sizes below 1 fall back to DefaultVoteSize.
func NewVoter(size int) *Voter {
	if size < 1 {
		size = DefaultVoteSize
	}
	return &Voter{
		size:    size,
		history: make([]Gesture, 0, size+1),
	}
}

// Push records a prediction and reports the confirmed gesture, if any.
func (v *Voter) Push(g Gesture) (Gesture, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.history = append(v.history, g)
	if len(v.history) > v.size {
		copy(v.history, v.history[1:])
		v.history = v.history[:v.size]
	}

	if len(v.history) < v.size {
		return None, false
	}
	first := v.history[0]
	if !first.Valid() {
		return None, false
	}
	for _, h := range v.history[1:] {
		if h != first {
			return None, false
		}
	}
	return first, true
}

// History returns a copy of the current predictions, oldest first.
func (v *Voter) History() []Gesture {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Gesture, len(v.history))
	copy(out, v.history)
	return out
}

// Reset drops all recorded predictions.
func (v *Voter) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.history = v.history[:0]
}

// Size returns the number of predictions required for a confirmation.
func (v *Voter) Size() int {
	return v.size
}
