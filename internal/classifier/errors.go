package classifier

import (
	"errors"
	"fmt"
)

var (
	errShape     = errors.New("tensor shape violates model contract")
	errNoOutput  = errors.New("model returned no output")
	errNonFinite = errors.New("model returned a non-finite score")
)

// InferenceError reports a failed model invocation or a tensor that does not
// match the model contract.
type InferenceError struct {
	// Op is the step that failed.
	Op string

	// Shape is the offending tensor shape, if known.
	Shape []int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *InferenceError) Error() string {
	if e.Shape != nil {
		return fmt.Sprintf("classifier: %s (shape %v): %v", e.Op, e.Shape, e.Err)
	}
	return fmt.Sprintf("classifier: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *InferenceError) Unwrap() error {
	return e.Err
}
