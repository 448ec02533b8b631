package classifier

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/features"
	"github.com/ayusman/mudra/internal/gesture"
)

func window(n int) []features.Vector {
	out := make([]features.Vector, n)
	for i := range out {
		for k := range out[i] {
			out[i][k] = float32(i*features.Count + k)
		}
	}
	return out
}

func TestContractConstants(t *testing.T) {
	assert.Equal(t, 10, WindowLength)
	assert.Equal(t, 24, FeatureCount)
	assert.Equal(t, 7, GestureCount)
}

func TestNewInputTensor(t *testing.T) {
	in := NewInputTensor(window(WindowLength))

	assert.Equal(t, []int{1, WindowLength, FeatureCount}, in.Shape)
	require.Len(t, in.Data, WindowLength*FeatureCount)
	for i, v := range in.Data {
		assert.Equal(t, float32(i), v)
	}

	frames, err := in.Frames()
	require.NoError(t, err)
	assert.Equal(t, window(WindowLength), frames)
}

func TestTensorFrames_BadShape(t *testing.T) {
	_, err := (&Tensor{Shape: []int{1, 2, 15}, Data: make([]float32, 30)}).Frames()

	var ie *InferenceError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, []int{1, 2, 15}, ie.Shape)
}

func TestAdapter_SelectsConfidentGesture(t *testing.T) {
	for _, g := range gesture.All() {
		model := NewMockModel(OneHot(g, 1.0))
		pred, err := NewAdapter(model, Options{}).Classify(window(WindowLength))

		require.NoError(t, err)
		assert.Equal(t, g, pred.Gesture)
		assert.Equal(t, int(g), pred.Index)
		assert.Equal(t, float32(1), pred.Score)
		assert.Equal(t, 1, model.Calls())
	}
}

func TestAdapter_BelowThresholdIsNone(t *testing.T) {
	for _, g := range gesture.All() {
		scores := OneHot(g, 0.95)
		pred, err := NewAdapter(NewMockModel(scores), Options{}).Classify(window(WindowLength))

		require.NoError(t, err)
		assert.Equal(t, gesture.None, pred.Gesture, "0.95 for %s must not pass", g)
		assert.Equal(t, int(g), pred.Index)
	}
}

func TestAdapter_ThresholdBoundary(t *testing.T) {
	pred, err := NewAdapter(NewMockModel(OneHot(gesture.Drag, 0.9999)), Options{}).Classify(window(WindowLength))
	require.NoError(t, err)
	assert.Equal(t, gesture.Drag, pred.Gesture)

	pred, err = NewAdapter(NewMockModel(OneHot(gesture.Drag, 0.9998)), Options{}).Classify(window(WindowLength))
	require.NoError(t, err)
	assert.Equal(t, gesture.None, pred.Gesture)
}

func TestAdapter_TieGoesToFirstIndex(t *testing.T) {
	scores := []float32{0, 0, 1, 0, 1, 0, 1}
	pred, err := NewAdapter(NewMockModel(scores), Options{}).Classify(window(WindowLength))

	require.NoError(t, err)
	assert.Equal(t, gesture.Drag, pred.Gesture)
	assert.Equal(t, 2, pred.Index)
}

func TestAdapter_CustomThreshold(t *testing.T) {
	adapter := NewAdapter(NewMockModel(OneHot(gesture.Tap, 0.95)), Options{Threshold: 0.9})
	assert.Equal(t, float32(0.9), adapter.Threshold())

	pred, err := adapter.Classify(window(WindowLength))
	require.NoError(t, err)
	assert.Equal(t, gesture.Tap, pred.Gesture)
}

func TestAdapter_PassesWindowToModel(t *testing.T) {
	model := NewMockModel(OneHot(gesture.Tap, 1))
	_, err := NewAdapter(model, Options{}).Classify(window(WindowLength))
	require.NoError(t, err)

	in := model.LastInput()
	require.NotNil(t, in)
	assert.Equal(t, []int{1, WindowLength, FeatureCount}, in.Shape)
}

func TestAdapter_Errors(t *testing.T) {
	boom := errors.New("runtime failure")

	tests := []struct {
		name   string
		model  Model
		window []features.Vector
		shape  []int
		cause  error
	}{
		{
			name:   "short window",
			model:  NewMockModel(OneHot(gesture.Tap, 1)),
			window: window(WindowLength - 1),
			shape:  []int{1, WindowLength - 1, FeatureCount},
			cause:  errShape,
		},
		{
			name: "runtime failure",
			model: ModelFunc(func(*Tensor) (*Tensor, error) {
				return nil, boom
			}),
			window: window(WindowLength),
			shape:  []int{1, WindowLength, FeatureCount},
			cause:  boom,
		},
		{
			name: "nil output",
			model: ModelFunc(func(*Tensor) (*Tensor, error) {
				return nil, nil
			}),
			window: window(WindowLength),
			shape:  []int{1, WindowLength, FeatureCount},
			cause:  errNoOutput,
		},
		{
			name:   "wrong output width",
			model:  NewMockModel(make([]float32, GestureCount+1)),
			window: window(WindowLength),
			shape:  []int{1, GestureCount + 1},
			cause:  errShape,
		},
		{
			name: "wrong output rank",
			model: ModelFunc(func(*Tensor) (*Tensor, error) {
				return &Tensor{Shape: []int{GestureCount}, Data: make([]float32, GestureCount)}, nil
			}),
			window: window(WindowLength),
			shape:  []int{GestureCount},
			cause:  errShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := NewAdapter(tt.model, Options{}).Classify(tt.window)

			var ie *InferenceError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.shape, ie.Shape)
			assert.ErrorIs(t, err, tt.cause)
			assert.Equal(t, gesture.None, pred.Gesture)
		})
	}
}

func TestAdapter_NonFiniteScore(t *testing.T) {
	scores := OneHot(gesture.Tap, 1)
	scores[3] = float32(math.NaN())

	_, err := NewAdapter(NewMockModel(scores), Options{}).Classify(window(WindowLength))
	assert.ErrorIs(t, err, errNonFinite)
}

func TestMockModel_SetError(t *testing.T) {
	model := NewMockModel(OneHot(gesture.Tap, 1))
	model.SetError(errors.New("down"))

	_, err := model.Run(NewInputTensor(window(1)))
	require.Error(t, err)

	model.SetError(nil)
	_, err = model.Run(NewInputTensor(window(1)))
	require.NoError(t, err)
	assert.Equal(t, 2, model.Calls())
}
