package gesture

import (
	"math"
	"sort"
	"sync"

	"github.com/ayusman/mudra/internal/features"
)

// Template is a reference angle sequence for one gesture.
type Template struct {
	Gesture   Gesture           // Gesture this template represents
	Sequence  []features.Vector // Reference feature sequence
	Tolerance float64           // Maximum DTW distance for a match
	Samples   int               // Number of captures averaged into Sequence
}

// Match represents a matching result between input and a template.
type Match struct {
	Template *Template // The matched template
	Score    float64   // Match score (0-1, higher is better)
	Distance float64   // DTW distance between input and template
}

// Matcher compares feature windows against registered templates using DTW.
// It is safe for concurrent use.
type Matcher struct {
	mu        sync.RWMutex
	templates []*Template
}

// NewMatcher creates a new Matcher instance.
func NewMatcher() *Matcher {
	return &Matcher{
		templates: make([]*Template, 0),
	}
}

// AddTemplate adds a gesture template, replacing any existing template for
// the same gesture.
func (m *Matcher) AddTemplate(t *Template) {
	if t == nil || !t.Gesture.Valid() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.templates {
		if existing.Gesture == t.Gesture {
			m.templates[i] = t
			return
		}
	}
	m.templates = append(m.templates, t)
}

// RemoveTemplate removes the template for a gesture.
func (m *Matcher) RemoveTemplate(g Gesture) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, t := range m.templates {
		if t.Gesture == g {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered templates.
func (m *Matcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.templates)
}

// Match finds templates within tolerance of the given window.
// Returns matches sorted by score in descending order (best matches first).
func (m *Matcher) Match(window []features.Vector) []Match {
	if len(window) == 0 {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var matches []Match
	for _, template := range m.templates {
		if len(template.Sequence) == 0 {
			continue
		}

		distance := DTWDistance(window, template.Sequence)
		if math.IsInf(distance, 1) || distance > template.Tolerance {
			continue
		}

		matches = append(matches, Match{
			Template: template,
			Score:    1.0 / (1.0 + distance),
			Distance: distance,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}
