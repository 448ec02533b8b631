package features

import "fmt"

// InvalidInputError reports a malformed landmark frame: the wrong number of
// points, or a coordinate that is NaN or infinite.
type InvalidInputError struct {
	Points int // number of points received
	Index  int // offending landmark, -1 when the count is wrong
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid landmark frame: %s (got %d points)", e.Reason, e.Points)
	}
	return fmt.Sprintf("invalid landmark frame: landmark %d: %s", e.Index, e.Reason)
}

// DegenerateGeometryError reports a bone whose endpoints coincide, so it has
// no direction to normalise.
type DegenerateGeometryError struct {
	Bone  int
	Start int
	End   int
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry: bone %d (%s, landmarks %d->%d) has zero length",
		e.Bone, Bones[e.Bone].Name, e.Start, e.End)
}
