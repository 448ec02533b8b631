// Package classifier adapts an external sequence-classification model to the
// recognizer. It fixes the tensor contract between the feature pipeline and
// the model and applies the confidence selection rule to the model output.
package classifier

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ayusman/mudra/internal/features"
	"github.com/ayusman/mudra/internal/gesture"
)

// Model contract. A model receives a [1, WindowLength, FeatureCount] tensor
// whose features follow features.AnglePairs order and returns a
// [1, GestureCount] confidence tensor ordered like gesture.All().
const (
	ContractVersion = "1"

	WindowLength = 10
	FeatureCount = features.Count
	GestureCount = gesture.Count

	// DefaultThreshold is the minimum top confidence for a non-None prediction.
	DefaultThreshold = 0.9999
)

// Tensor is a dense float32 tensor in row-major order.
type Tensor struct {
	Shape []int
	Data  []float32
}

// NewInputTensor packs a feature window into a [1, len(window), FeatureCount] tensor.
func NewInputTensor(window []features.Vector) *Tensor {
	data := make([]float32, 0, len(window)*FeatureCount)
	for i := range window {
		data = append(data, window[i][:]...)
	}
	return &Tensor{
		Shape: []int{1, len(window), FeatureCount},
		Data:  data,
	}
}

// Frames unpacks a [1, n, FeatureCount] tensor back into feature vectors.
func (t *Tensor) Frames() ([]features.Vector, error) {
	if len(t.Shape) != 3 || t.Shape[0] != 1 || t.Shape[2] != FeatureCount || len(t.Data) != t.Shape[1]*FeatureCount {
		return nil, &InferenceError{Op: "unpack input", Shape: t.Shape, Err: errShape}
	}
	out := make([]features.Vector, t.Shape[1])
	for i := range out {
		copy(out[i][:], t.Data[i*FeatureCount:(i+1)*FeatureCount])
	}
	return out, nil
}

// Model is the external inference collaborator.
type Model interface {
	Run(input *Tensor) (*Tensor, error)
}

// ModelFunc adapts a plain function to the Model interface.
type ModelFunc func(input *Tensor) (*Tensor, error)

// Run calls f(input).
func (f ModelFunc) Run(input *Tensor) (*Tensor, error) {
	return f(input)
}

// Prediction is the outcome of one inference call.
type Prediction struct {
	Gesture gesture.Gesture // None unless the top score met the threshold
	Index   int             // Position of the top score
	Score   float32         // Top score
	Scores  []float32       // Full confidence vector
}

// Options configures an Adapter.
type Options struct {
	Window    int
	Threshold float64
}

// Adapter runs the model on a window and applies the selection rule.
// It holds no mutable state and is safe for concurrent use if the model is.
type Adapter struct {
	model     Model
	window    int
	threshold float32
}

// NewAdapter wraps model. Zero options fall back to WindowLength and
// DefaultThreshold.
func NewAdapter(model Model, opts Options) *Adapter {
	if opts.Window < 1 {
		opts.Window = WindowLength
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	return &Adapter{
		model:     model,
		window:    opts.Window,
		threshold: float32(opts.Threshold),
	}
}

// Window returns the number of frames the adapter expects.
func (a *Adapter) Window() int {
	return a.window
}

// Threshold returns the acceptance threshold.
func (a *Adapter) Threshold() float32 {
	return a.threshold
}

// Classify invokes the model once on window, which must hold exactly
// a.Window() vectors. The top score selects a gesture only if it is at least
// the threshold; ties go to the first index.
func (a *Adapter) Classify(window []features.Vector) (Prediction, error) {
	none := Prediction{Gesture: gesture.None, Index: -1}

	input := NewInputTensor(window)
	if len(window) != a.window {
		return none, &InferenceError{Op: "build input", Shape: input.Shape, Err: errShape}
	}

	output, err := a.model.Run(input)
	if err != nil {
		return none, &InferenceError{Op: "run model", Shape: input.Shape, Err: err}
	}
	if output == nil {
		return none, &InferenceError{Op: "run model", Shape: input.Shape, Err: errNoOutput}
	}
	if len(output.Shape) != 2 || output.Shape[0] != 1 || output.Shape[1] != GestureCount || len(output.Data) != GestureCount {
		return none, &InferenceError{Op: "read output", Shape: output.Shape, Err: errShape}
	}

	scores := make([]float64, GestureCount)
	for i, s := range output.Data {
		if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
			return none, &InferenceError{Op: "read output", Shape: output.Shape, Err: errNonFinite}
		}
		scores[i] = float64(s)
	}

	idx := floats.MaxIdx(scores)
	pred := Prediction{
		Gesture: gesture.None,
		Index:   idx,
		Score:   output.Data[idx],
		Scores:  append([]float32(nil), output.Data...),
	}
	if pred.Score >= a.threshold {
		pred.Gesture = gesture.FromIndex(idx)
	}
	return pred, nil
}
