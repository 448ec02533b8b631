package classifier

import (
	"github.com/ayusman/mudra/internal/gesture"
)

// TemplateModel is a Model backed by DTW template matching. The best
// template within tolerance scores 1 and every other gesture scores 0, so
// it passes any threshold in (0, 1].
type TemplateModel struct {
	matcher *gesture.Matcher
}

// NewTemplateModel creates a TemplateModel over matcher.
func NewTemplateModel(matcher *gesture.Matcher) *TemplateModel {
	return &TemplateModel{matcher: matcher}
}

// Run implements Model.
func (m *TemplateModel) Run(input *Tensor) (*Tensor, error) {
	window, err := input.Frames()
	if err != nil {
		return nil, err
	}

	out := &Tensor{
		Shape: []int{1, GestureCount},
		Data:  make([]float32, GestureCount),
	}
	if matches := m.matcher.Match(window); len(matches) > 0 {
		out.Data[matches[0].Template.Gesture] = 1
	}
	return out, nil
}
