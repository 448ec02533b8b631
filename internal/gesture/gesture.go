// Package gesture defines the gesture vocabulary, the temporal voter that
// confirms gestures over consecutive predictions, and DTW template matching
// over angle feature sequences.
package gesture

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGesture is returned when a label does not name a gesture.
var ErrUnknownGesture = errors.New("unknown gesture")

// Gesture is one of the fixed recognisable gestures, or None.
// The order of the non-None values matches the classifier's output vector.
type Gesture int

const (
	Tap Gesture = iota
	Slide
	Drag
	ZoomIn
	ZoomOut
	VolumeUp
	VolumeDown
	// None means no confident or confirmed gesture. It is never confirmed.
	None
)

// Count is the number of real gestures, i.e. the classifier output width.
const Count = int(None)

var names = [...]string{
	Tap:        "TAP",
	Slide:      "SLIDE",
	Drag:       "DRAG",
	ZoomIn:     "ZOOM_IN",
	ZoomOut:    "ZOOM_OUT",
	VolumeUp:   "VOLUME_UP",
	VolumeDown: "VOLUME_DOWN",
	None:       "NONE",
}

// String returns the upper-case label, e.g. "ZOOM_IN".
func (g Gesture) String() string {
	if g < 0 || int(g) >= len(names) {
		return fmt.Sprintf("Gesture(%d)", int(g))
	}
	return names[g]
}

// Valid reports whether g is a real gesture (not None, not out of range).
func (g Gesture) Valid() bool {
	return g >= 0 && g < None
}

// FromIndex maps a classifier output position to its gesture.
func FromIndex(i int) Gesture {
	if i < 0 || i >= Count {
		return None
	}
	return Gesture(i)
}

// All returns the real gestures in classifier order.
func All() []Gesture {
	out := make([]Gesture, Count)
	for i := range out {
		out[i] = Gesture(i)
	}
	return out
}

// Parse accepts labels case-insensitively, with '-' or '_' separators
// ("zoom-in", "ZOOM_IN").
func Parse(label string) (Gesture, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(label), "-", "_"))
	for i, name := range names {
		if name == normalized {
			return Gesture(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownGesture, label)
}

// MarshalText implements encoding.TextMarshaler.
func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Gesture) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
