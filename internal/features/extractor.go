package features

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ayusman/mudra/internal/landmark"
)

// minBoneLength is the norm below which a bone is treated as zero length.
const minBoneLength = 1e-12

// Vector holds one frame's angle features in degrees, ordered as AnglePairs.
// Values are float32 to match the model's input tensor.
type Vector [Count]float32

// Slice returns the features as a slice sharing no storage with v.
func (v Vector) Slice() []float32 {
	out := make([]float32, Count)
	copy(out, v[:])
	return out
}

// Extract computes the angle feature vector for a landmark frame.
//
// It fails with *InvalidInputError when the frame does not carry exactly
// landmark.Count finite points, and with *DegenerateGeometryError when
// a bone has zero length. Extract has no side effects and is safe to call
// concurrently.
func Extract(frame landmark.Frame) (Vector, error) {
	var out Vector

	if err := validate(frame); err != nil {
		return out, err
	}

	var units [BoneCount]r3.Vec
	for i, bone := range Bones {
		v := r3.Sub(toVec(frame[bone.End]), toVec(frame[bone.Start]))
		norm := r3.Norm(v)
		if norm < minBoneLength {
			return out, &DegenerateGeometryError{Bone: i, Start: bone.Start, End: bone.End}
		}
		units[i] = r3.Scale(1/norm, v)
	}

	for i, pair := range AnglePairs {
		out[i] = float32(angle(units[pair.A], units[pair.B]))
	}
	return out, nil
}

// angle returns the angle in degrees between two unit vectors. The dot
// product is clamped so rounding never pushes it outside acos's domain.
func angle(a, b r3.Vec) float64 {
	dot := r3.Dot(a, b)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math.Acos(dot) * 180 / math.Pi
}

func validate(frame landmark.Frame) error {
	if len(frame) != landmark.Count {
		return &InvalidInputError{
			Points: len(frame),
			Index:  -1,
			Reason: "expected 21 landmarks",
		}
	}
	for i, p := range frame {
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return &InvalidInputError{
				Points: len(frame),
				Index:  i,
				Reason: "non-finite coordinate",
			}
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func toVec(p landmark.Point3D) r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}
