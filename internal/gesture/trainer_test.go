package gesture

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/features"
)

func floatEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestTrainer_Train_Average(t *testing.T) {
	trainer := NewTrainer(4, 12)

	captures := [][]features.Vector{
		ramp(4, 0, 10),
		ramp(4, 20, 10),
	}

	tmpl, err := trainer.Train(ZoomIn, captures)
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if tmpl.Gesture != ZoomIn || tmpl.Tolerance != 12 || tmpl.Samples != 2 {
		t.Errorf("unexpected template metadata: %+v", tmpl)
	}
	if len(tmpl.Sequence) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(tmpl.Sequence))
	}

	// Average of 0,10,20,30 and 20,30,40,50.
	want := []float32{10, 20, 30, 40}
	for i, w := range want {
		if !floatEqual(tmpl.Sequence[i][0], w) || !floatEqual(tmpl.Sequence[i][features.Count-1], w) {
			t.Errorf("frame %d: expected %f, got %f", i, w, tmpl.Sequence[i][0])
		}
	}
}

func TestTrainer_Train_DifferentLengths(t *testing.T) {
	trainer := NewTrainer(10, 5)

	tmpl, err := trainer.Train(Slide, [][]features.Vector{ramp(5, 0, 10), ramp(20, 0, 2)})
	if err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	if len(tmpl.Sequence) != 10 {
		t.Errorf("expected 10 frames, got %d", len(tmpl.Sequence))
	}
	if !floatEqual(tmpl.Sequence[0][0], 0) {
		t.Errorf("expected first frame 0, got %f", tmpl.Sequence[0][0])
	}
	// Both captures end at 40 and 38.
	if !floatEqual(tmpl.Sequence[9][0], 39) {
		t.Errorf("expected last frame 39, got %f", tmpl.Sequence[9][0])
	}
}

func TestTrainer_Train_Errors(t *testing.T) {
	trainer := NewTrainer(10, 5)

	if _, err := trainer.Train(None, [][]features.Vector{ramp(3, 0, 1)}); !errors.Is(err, ErrUnknownGesture) {
		t.Errorf("expected ErrUnknownGesture for None, got %v", err)
	}
	if _, err := trainer.Train(Tap, nil); err == nil {
		t.Error("expected error for no captures")
	}
	if _, err := trainer.Train(Tap, [][]features.Vector{{}}); err == nil {
		t.Error("expected error for empty capture")
	}
	if _, err := NewTrainer(0, 5).Train(Tap, [][]features.Vector{ramp(3, 0, 1)}); err == nil {
		t.Error("expected error for zero length")
	}
}

func TestResample(t *testing.T) {
	tests := []struct {
		name   string
		seq    []features.Vector
		length int
		first  float32
		last   float32
		want   int
	}{
		{"upsample", ramp(3, 0, 10), 5, 0, 20, 5},
		{"downsample", ramp(11, 0, 1), 6, 0, 10, 6},
		{"single frame", ramp(1, 7, 0), 4, 7, 7, 4},
		{"same length", ramp(4, 1, 1), 4, 1, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resample(tt.seq, tt.length)
			if len(got) != tt.want {
				t.Fatalf("expected %d frames, got %d", tt.want, len(got))
			}
			if !floatEqual(got[0][0], tt.first) {
				t.Errorf("first frame: expected %f, got %f", tt.first, got[0][0])
			}
			if !floatEqual(got[len(got)-1][0], tt.last) {
				t.Errorf("last frame: expected %f, got %f", tt.last, got[len(got)-1][0])
			}
		})
	}

	if got := Resample(nil, 5); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := Resample(ramp(3, 0, 1), 0); got != nil {
		t.Errorf("expected nil for zero length, got %v", got)
	}
}

func TestResample_Midpoint(t *testing.T) {
	got := Resample(ramp(2, 0, 10), 3)
	if !floatEqual(got[1][0], 5) {
		t.Errorf("expected interpolated midpoint 5, got %f", got[1][0])
	}
}
