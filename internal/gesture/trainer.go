package gesture

import (
	"fmt"

	"github.com/ayusman/mudra/internal/features"
)

// Trainer turns captured feature sequences into gesture templates.
type Trainer struct {
	// Length is the number of frames in a produced template.
	Length int
	// Tolerance is copied onto produced templates.
	Tolerance float64
}

// NewTrainer creates a Trainer producing templates of the given length.
func NewTrainer(length int, tolerance float64) *Trainer {
	return &Trainer{Length: length, Tolerance: tolerance}
}

// Train averages the captured sequences for one gesture into a template.
// Sequences of different lengths are resampled to t.Length frames first.
func (t *Trainer) Train(g Gesture, captures [][]features.Vector) (*Template, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("train %s: %w", g, ErrUnknownGesture)
	}
	if len(captures) == 0 {
		return nil, fmt.Errorf("train %s: no captures provided", g)
	}
	if t.Length < 1 {
		return nil, fmt.Errorf("train %s: template length must be positive", g)
	}

	sums := make([][features.Count]float64, t.Length)
	for i, capture := range captures {
		if len(capture) == 0 {
			return nil, fmt.Errorf("train %s: capture %d is empty", g, i)
		}
		resampled := Resample(capture, t.Length)
		for f := range resampled {
			for k, v := range resampled[f] {
				sums[f][k] += float64(v)
			}
		}
	}

	n := float64(len(captures))
	sequence := make([]features.Vector, t.Length)
	for f := range sums {
		for k := range sums[f] {
			sequence[f][k] = float32(sums[f][k] / n)
		}
	}

	return &Template{
		Gesture:   g,
		Sequence:  sequence,
		Tolerance: t.Tolerance,
		Samples:   len(captures),
	}, nil
}

// Resample stretches or shrinks a sequence to exactly length frames using
// linear interpolation between neighbouring frames.
func Resample(seq []features.Vector, length int) []features.Vector {
	if len(seq) == 0 || length <= 0 {
		return nil
	}

	result := make([]features.Vector, length)
	if len(seq) == 1 || length == 1 {
		for i := range result {
			result[i] = seq[0]
		}
		return result
	}

	for i := 0; i < length; i++ {
		pos := float64(i) / float64(length-1) * float64(len(seq)-1)

		idx := int(pos)
		if idx >= len(seq)-1 {
			idx = len(seq) - 2
		}
		frac := float32(pos - float64(idx))

		a, b := &seq[idx], &seq[idx+1]
		for k := range result[i] {
			result[i][k] = a[k] + frac*(b[k]-a[k])
		}
	}

	return result
}
